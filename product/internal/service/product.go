package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/cache"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/pkg/response"
)

type ProductService struct {
	queries *repository.Queries
	cache   cache.ProductCache
}

func NewProductService(queries *repository.Queries, productCache cache.ProductCache) *ProductService {
	return &ProductService{queries: queries, cache: productCache}
}

func (svc *ProductService) FindProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProducts").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products in database").Logger()
	logger.Trace().Msg("finding products in database")
	products, err := svc.queries.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_PRODUCTS, len(products)).Msg("found products in database")

	res := make([]response.Product, 0, len(products))
	for _, product := range products {
		res = append(res, product.Response())
	}
	return res, nil
}

func (svc *ProductService) FindProductById(c context.Context, id uuid.UUID) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProductById").
		Str(constants.KEY_PRODUCT_ID, id.String()).
		Str(constants.KEY_CACHE_KEY, cache.ProductKey(id)).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in cache").Logger()
	logger.Trace().Msg("finding product in cache")
	product, err := svc.cache.Get(c, id)
	if err == nil {
		span.AddEvent("found product in cache")
		logger.Info().Msg("found product in cache")
		return product, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Warn().Err(err).Msg(err.Error())
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in database").Logger()
	logger.Trace().Msg("finding product in database")
	row, err := svc.queries.FindProductById(c, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrProductNotFound
		}
		err = fmt.Errorf("failed finding product in database with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	product = row.Response()
	logger.Info().Msg("found product in database")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting product to cache").Logger()
	if err = svc.cache.Set(c, product); err != nil {
		logger.Warn().Err(err).Msg(err.Error())
	}

	return product, nil
}
