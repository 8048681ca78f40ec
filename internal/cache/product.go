package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/product/pkg/response"
)

var ErrCacheMiss = errors.New("cache miss")

// ProductCache stores product reads for display. Stock decisions never go
// through it.
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(client *redis.Client) ProductCache {
	return ProductCache{client: client}
}

func ProductKey(id uuid.UUID) string {
	return fmt.Sprintf(constants.CACHE_KEY_PRODUCT, id.String())
}

func (p ProductCache) Get(c context.Context, id uuid.UUID) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductCache Get")
	defer span.End()

	value, err := p.client.Get(c, ProductKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return response.Product{}, ErrCacheMiss
	}
	if err != nil {
		err = fmt.Errorf("failed getting product from cache with error=%w", err)
		otel.RecordError(err, span)
		return response.Product{}, err
	}

	product := response.Product{}
	if err = json.Unmarshal(value, &product); err != nil {
		err = fmt.Errorf("failed unmarshaling cached product with error=%w", err)
		otel.RecordError(err, span)
		return response.Product{}, err
	}
	return product, nil
}

func (p ProductCache) Set(c context.Context, product response.Product) error {
	c, span := otel.Tracer.Start(c, "ProductCache Set")
	defer span.End()

	value, err := json.Marshal(product)
	if err != nil {
		err = fmt.Errorf("failed marshaling product with error=%w", err)
		otel.RecordError(err, span)
		return err
	}
	if err = p.client.Set(c, ProductKey(product.ID), value, constants.CACHE_TTL_PRODUCT).Err(); err != nil {
		err = fmt.Errorf("failed setting product to cache with error=%w", err)
		otel.RecordError(err, span)
		return err
	}
	return nil
}

// Invalidate drops the cached products. Failures are logged and swallowed
// since the entries expire on their own.
func (p ProductCache) Invalidate(c context.Context, ids ...uuid.UUID) {
	if p.client == nil || len(ids) == 0 {
		return
	}
	c, span := otel.Tracer.Start(c, "ProductCache Invalidate")
	defer span.End()

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, ProductKey(id))
	}
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductCache Invalidate").
		Strs(constants.KEY_CACHE_KEY, keys).
		Logger()

	if err := p.client.Del(c, keys...).Err(); err != nil {
		err = fmt.Errorf("failed invalidating products with error=%w", err)
		otel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
		return
	}
	logger.Debug().Msg("invalidated products")
}
