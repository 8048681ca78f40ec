package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/cache"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/internal/testutil"
)

func TestFindProductById(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}

	c := context.Background()
	pool := testutil.NewPostgres(c, t)
	client := testutil.NewRedis(c, t)
	productCache := cache.NewProductCache(client)
	svc := NewProductService(repository.New(pool), productCache)

	productId := testutil.SeedProduct(c, t, pool, "19.99", 7)

	t.Run("given cold cache should read database and fill cache", func(t *testing.T) {
		product, err := svc.FindProductById(c, productId)
		require.NoError(t, err)
		assert.Equal(t, productId, product.ID)
		assert.True(t, decimal.RequireFromString("19.99").Equal(product.Price))
		assert.Equal(t, int32(7), product.StockQuantity)

		cached, err := productCache.Get(c, productId)
		require.NoError(t, err)
		assert.Equal(t, product.ID, cached.ID)
	})

	t.Run("given warm cache should serve cached product", func(t *testing.T) {
		testutil.SetProductPrice(c, t, pool, productId, "25.00")

		product, err := svc.FindProductById(c, productId)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("19.99").Equal(product.Price))
	})

	t.Run("given invalidated cache should read fresh price", func(t *testing.T) {
		productCache.Invalidate(c, productId)

		product, err := svc.FindProductById(c, productId)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("25.00").Equal(product.Price))
	})

	t.Run("given unknown product should return not found", func(t *testing.T) {
		_, err := svc.FindProductById(c, uuid.New())
		assert.True(t, errors.Is(err, inErrors.ErrProductNotFound))
	})
}

func TestFindProducts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}

	c := context.Background()
	pool := testutil.NewPostgres(c, t)
	svc := NewProductService(repository.New(pool), cache.NewProductCache(nil))

	first := testutil.SeedProduct(c, t, pool, "1.50", 3)
	second := testutil.SeedProduct(c, t, pool, "2.25", 0)

	products, err := svc.FindProducts(c)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{first, second}, ids)
}
