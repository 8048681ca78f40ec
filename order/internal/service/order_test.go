package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/cache"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/event"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/repository"
	inTestutil "github.com/Alturino/storefront/internal/testutil"
	"github.com/Alturino/storefront/order/pkg/request"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.OrderEvent
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, evt event.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return r.err
}

func (r *recordingPublisher) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]event.Type, 0, len(r.events))
	for _, evt := range r.events {
		types = append(types, evt.Type)
	}
	return types
}

type fixture struct {
	pool      *pgxpool.Pool
	service   *OrderService
	metrics   *metrics.Metrics
	publisher *recordingPublisher
}

func setup(t *testing.T) fixture {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}

	pool := inTestutil.NewPostgres(context.Background(), t)
	m := metrics.New(prometheus.NewRegistry())
	publisher := &recordingPublisher{}
	return fixture{
		pool:      pool,
		service:   NewOrderService(pool, repository.New(pool), cache.NewProductCache(nil), publisher, m),
		metrics:   m,
		publisher: publisher,
	}
}

type seededCart struct {
	userId    uuid.UUID
	cartId    uuid.UUID
	productId uuid.UUID
}

// cartWith seeds a user with an active cart holding quantity units of a new
// product priced at price.
func (f fixture) cartWith(t *testing.T, price string, stock int32, quantity int32) seededCart {
	t.Helper()
	c := context.Background()
	userId := inTestutil.SeedUser(c, t, f.pool)
	cartId := inTestutil.SeedCart(c, t, f.pool, userId)
	productId := inTestutil.SeedProduct(c, t, f.pool, price, stock)
	inTestutil.SeedCartItem(c, t, f.pool, cartId, productId, quantity)
	return seededCart{userId: userId, cartId: cartId, productId: productId}
}

func paypalPayment(amount string) request.AttachPayment {
	return request.AttachPayment{
		Method:        request.MethodPaypal,
		Provider:      "paypal",
		TransactionID: uuid.NewString(),
		Amount:        decimal.RequireFromString(amount),
		Paypal:        &request.Paypal{Email: "buyer@example.com"},
	}
}

func shippingAddress() request.AttachShipping {
	return request.AttachShipping{
		FullName:   "Jane Doe",
		Address:    "1 Main St",
		City:       "Springfield",
		Country:    "US",
		PostalCode: "12345",
	}
}

func TestCreateOrder(t *testing.T) {
	f := setup(t)
	c := context.Background()

	t.Run("given active cart should snapshot prices and total", func(t *testing.T) {
		userId := inTestutil.SeedUser(c, t, f.pool)
		cartId := inTestutil.SeedCart(c, t, f.pool, userId)
		first := inTestutil.SeedProduct(c, t, f.pool, "19.99", 10)
		second := inTestutil.SeedProduct(c, t, f.pool, "20.00", 10)
		inTestutil.SeedCartItem(c, t, f.pool, cartId, first, 3)
		inTestutil.SeedCartItem(c, t, f.pool, cartId, second, 2)

		order, err := f.service.CreateOrder(c, userId, request.CreateOrder{CartID: cartId})
		require.NoError(t, err)
		assert.Equal(t, "99.97", order.TotalAmount.StringFixed(2))
		assert.Equal(t, string(repository.FulfillmentStatusPending), order.FulfillmentStatus)
		assert.Equal(t, cartId, order.CartID)
		assert.Len(t, order.OrderItems, 2)
		assert.Equal(t, string(repository.CartStatusCheckedOut), inTestutil.CartStatus(c, t, f.pool, cartId))
		assert.Equal(t, int32(7), inTestutil.ProductStock(c, t, f.pool, first), "checkout keeps reserved stock")

		inTestutil.SetProductPrice(c, t, f.pool, first, "5.00")
		found, err := f.service.FindOrderById(c, userId, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "99.97", found.TotalAmount.StringFixed(2))
		for _, item := range found.OrderItems {
			if item.ProductID == first {
				assert.Equal(t, "19.99", item.PriceAtPurchase.StringFixed(2))
			}
		}
		assert.Contains(t, f.publisher.types(), event.TypeOrderCreated)
	})

	t.Run("given empty cart should reject and keep cart active", func(t *testing.T) {
		userId := inTestutil.SeedUser(c, t, f.pool)
		cartId := inTestutil.SeedCart(c, t, f.pool, userId)

		_, err := f.service.CreateOrder(c, userId, request.CreateOrder{CartID: cartId})
		assert.ErrorIs(t, err, inErrors.ErrCartEmpty)
		assert.Equal(t, string(repository.CartStatusActive), inTestutil.CartStatus(c, t, f.pool, cartId))
	})

	t.Run("given checked out cart should return not found", func(t *testing.T) {
		seeded := f.cartWith(t, "1.00", 5, 1)
		_, err := f.service.CreateOrder(c, seeded.userId, request.CreateOrder{CartID: seeded.cartId})
		require.NoError(t, err)

		_, err = f.service.CreateOrder(c, seeded.userId, request.CreateOrder{CartID: seeded.cartId})
		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
	})

	t.Run("given cart of another user should return not found", func(t *testing.T) {
		seeded := f.cartWith(t, "1.00", 5, 1)
		other := inTestutil.SeedUser(c, t, f.pool)

		_, err := f.service.CreateOrder(c, other, request.CreateOrder{CartID: seeded.cartId})
		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
		assert.Equal(t, string(repository.CartStatusActive), inTestutil.CartStatus(c, t, f.pool, seeded.cartId))
	})

	t.Run("given publisher failure should still create order", func(t *testing.T) {
		seeded := f.cartWith(t, "1.00", 5, 1)
		failing := NewOrderService(
			f.pool,
			repository.New(f.pool),
			cache.NewProductCache(nil),
			&recordingPublisher{err: errors.New("broker down")},
			f.metrics,
		)

		order, err := failing.CreateOrder(c, seeded.userId, request.CreateOrder{CartID: seeded.cartId})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, order.ID)
	})
}

func TestCreateOrderTotals(t *testing.T) {
	f := setup(t)
	c := context.Background()

	tests := []struct {
		name          string
		price         string
		quantity      int32
		expectedTotal string
	}{
		{
			name:          "given five units at 19.99 should total exactly 99.95",
			price:         "19.99",
			quantity:      5,
			expectedTotal: "99.95",
		},
		{
			name:          "given three units at 0.10 should total exactly 0.30",
			price:         "0.10",
			quantity:      3,
			expectedTotal: "0.30",
		},
		{
			name:          "given one unit at 1234.56 should total the unit price",
			price:         "1234.56",
			quantity:      1,
			expectedTotal: "1234.56",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			seeded := f.cartWith(t, test.price, 10, test.quantity)

			order, err := f.service.CreateOrder(c, seeded.userId, request.CreateOrder{CartID: seeded.cartId})
			require.NoError(t, err)
			assert.True(
				t,
				decimal.RequireFromString(test.expectedTotal).Equal(order.TotalAmount),
				"total=%s", order.TotalAmount,
			)
			require.Len(t, order.OrderItems, 1)
			assert.Equal(t, seeded.productId, order.OrderItems[0].ProductID)
			assert.Equal(t, test.quantity, order.OrderItems[0].Quantity)
			assert.True(t, decimal.RequireFromString(test.price).Equal(order.OrderItems[0].PriceAtPurchase))
			assert.Equal(t, string(repository.FulfillmentStatusPending), order.FulfillmentStatus)
		})
	}
}

func TestConcurrentCreateOrderCreatesOneOrder(t *testing.T) {
	f := setup(t)
	c := context.Background()

	seeded := f.cartWith(t, "4.99", 10, 2)
	before := testutil.ToFloat64(f.metrics.Checkouts.WithLabelValues(metrics.ResultCreated))

	const attempts = 10
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.service.CreateOrder(c, seeded.userId, request.CreateOrder{CartID: seeded.cartId})
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, inErrors.ErrCartNotFound)
	}
	assert.Equal(t, 1, created)

	orders, err := f.service.FindOrders(c, seeded.userId)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Checkouts.WithLabelValues(metrics.ResultCreated))-before)
	assert.Equal(t, float64(attempts-1), testutil.ToFloat64(f.metrics.Checkouts.WithLabelValues(metrics.ResultRejected)))
}

func TestAttachPayment(t *testing.T) {
	f := setup(t)
	c := context.Background()

	newOrder := func(t *testing.T) (uuid.UUID, uuid.UUID) {
		seeded := f.cartWith(t, "10.00", 10, 2)
		order, err := f.service.CreateOrder(c, seeded.userId, request.CreateOrder{CartID: seeded.cartId})
		require.NoError(t, err)
		return seeded.userId, order.ID
	}

	t.Run("given matching paypal payment should move order to processing", func(t *testing.T) {
		userId, orderId := newOrder(t)

		payment, err := f.service.AttachPayment(c, userId, orderId, paypalPayment("20.00"))
		require.NoError(t, err)
		require.NotNil(t, payment.Paypal)
		assert.Equal(t, "buyer@example.com", payment.Paypal.Email)

		order, err := f.service.FindOrderById(c, userId, orderId)
		require.NoError(t, err)
		assert.Equal(t, string(repository.FulfillmentStatusProcessing), order.FulfillmentStatus)
		assert.Contains(t, f.publisher.types(), event.TypeOrderPaid)

		found, err := f.service.FindPayment(c, userId, orderId)
		require.NoError(t, err)
		assert.Equal(t, "20.00", found.Amount.StringFixed(2))
	})

	t.Run("given card payment should store only last four digits", func(t *testing.T) {
		userId, orderId := newOrder(t)
		param := request.AttachPayment{
			Method:        request.MethodCreditCard,
			Provider:      "stripe",
			TransactionID: uuid.NewString(),
			Amount:        decimal.RequireFromString("20"),
			Card: &request.Card{
				CardHolder:  "Jane Doe",
				CardNumber:  "4242424242424242",
				CVV:         "123",
				ExpiryMonth: 12,
				ExpiryYear:  2030,
			},
		}

		payment, err := f.service.AttachPayment(c, userId, orderId, param)
		require.NoError(t, err)
		require.NotNil(t, payment.Card)
		assert.Equal(t, "4242", payment.Card.CardLast4)

		found, err := f.service.FindPayment(c, userId, orderId)
		require.NoError(t, err)
		require.NotNil(t, found.Card)
		assert.Equal(t, "4242", found.Card.CardLast4)
		assert.Nil(t, found.Paypal)
	})

	t.Run("given amount mismatch should reject and keep order pending", func(t *testing.T) {
		userId, orderId := newOrder(t)

		_, err := f.service.AttachPayment(c, userId, orderId, paypalPayment("19.99"))
		assert.ErrorIs(t, err, inErrors.ErrPaymentAmountMismatch)

		order, err := f.service.FindOrderById(c, userId, orderId)
		require.NoError(t, err)
		assert.Equal(t, string(repository.FulfillmentStatusPending), order.FulfillmentStatus)
		_, err = f.service.FindPayment(c, userId, orderId)
		assert.ErrorIs(t, err, inErrors.ErrPaymentNotFound)
	})

	t.Run("given paid order should reject second payment", func(t *testing.T) {
		userId, orderId := newOrder(t)
		_, err := f.service.AttachPayment(c, userId, orderId, paypalPayment("20.00"))
		require.NoError(t, err)

		_, err = f.service.AttachPayment(c, userId, orderId, paypalPayment("20.00"))
		assert.ErrorIs(t, err, inErrors.ErrOrderNotPending)
	})

	t.Run("given order of another user should return not found", func(t *testing.T) {
		_, orderId := newOrder(t)
		other := inTestutil.SeedUser(c, t, f.pool)

		_, err := f.service.AttachPayment(c, other, orderId, paypalPayment("20.00"))
		assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
	})

	t.Run("given method without details should reject", func(t *testing.T) {
		userId, orderId := newOrder(t)
		param := paypalPayment("20.00")
		param.Paypal = nil

		_, err := f.service.AttachPayment(c, userId, orderId, param)
		assert.ErrorIs(t, err, inErrors.ErrInvalidPaymentMethod)
	})
}

func TestAttachShipping(t *testing.T) {
	f := setup(t)
	c := context.Background()

	seeded := f.cartWith(t, "3.00", 10, 1)
	order, err := f.service.CreateOrder(c, seeded.userId, request.CreateOrder{CartID: seeded.cartId})
	require.NoError(t, err)

	shipping, err := f.service.AttachShipping(c, seeded.userId, order.ID, shippingAddress())
	require.NoError(t, err)
	assert.NotEmpty(t, shipping.TrackingNumber)
	assert.Equal(t, "Springfield", shipping.City)

	_, err = f.service.AttachShipping(c, seeded.userId, order.ID, shippingAddress())
	assert.ErrorIs(t, err, inErrors.ErrShippingExists)

	found, err := f.service.FindShipping(c, seeded.userId, order.ID)
	require.NoError(t, err)
	assert.Equal(t, shipping.TrackingNumber, found.TrackingNumber)

	other := f.cartWith(t, "3.00", 10, 1)
	otherOrder, err := f.service.CreateOrder(c, other.userId, request.CreateOrder{CartID: other.cartId})
	require.NoError(t, err)
	_, err = f.service.FindShipping(c, other.userId, otherOrder.ID)
	assert.ErrorIs(t, err, inErrors.ErrShippingNotFound)
}

func TestUpdateFulfillment(t *testing.T) {
	f := setup(t)
	c := context.Background()

	paidOrder := func(t *testing.T, withShipping bool) (seededCart, uuid.UUID) {
		seeded := f.cartWith(t, "2.50", 10, 4)
		order, err := f.service.CreateOrder(c, seeded.userId, request.CreateOrder{CartID: seeded.cartId})
		require.NoError(t, err)
		if withShipping {
			_, err = f.service.AttachShipping(c, seeded.userId, order.ID, shippingAddress())
			require.NoError(t, err)
		}
		_, err = f.service.AttachPayment(c, seeded.userId, order.ID, paypalPayment("10.00"))
		require.NoError(t, err)
		return seeded, order.ID
	}

	t.Run("given shipping info should ship then deliver", func(t *testing.T) {
		seeded, orderId := paidOrder(t, true)

		order, err := f.service.UpdateFulfillment(c, seeded.userId, orderId, request.UpdateFulfillment{Status: "shipped"})
		require.NoError(t, err)
		assert.Equal(t, string(repository.FulfillmentStatusShipped), order.FulfillmentStatus)

		_, err = f.service.AttachShipping(c, seeded.userId, orderId, shippingAddress())
		assert.ErrorIs(t, err, inErrors.ErrOrderNotShippable)

		order, err = f.service.UpdateFulfillment(c, seeded.userId, orderId, request.UpdateFulfillment{Status: "delivered"})
		require.NoError(t, err)
		assert.Equal(t, string(repository.FulfillmentStatusDelivered), order.FulfillmentStatus)

		_, err = f.service.UpdateFulfillment(c, seeded.userId, orderId, request.UpdateFulfillment{Status: "canceled"})
		assert.ErrorIs(t, err, inErrors.ErrInvalidTransition)
		assert.Contains(t, f.publisher.types(), event.TypeOrderDelivered)
	})

	t.Run("given no shipping info should refuse to ship", func(t *testing.T) {
		seeded, orderId := paidOrder(t, false)

		_, err := f.service.UpdateFulfillment(c, seeded.userId, orderId, request.UpdateFulfillment{Status: "shipped"})
		assert.ErrorIs(t, err, inErrors.ErrShippingRequired)
	})

	t.Run("given cancel should restock order items", func(t *testing.T) {
		seeded, orderId := paidOrder(t, false)
		assert.Equal(t, int32(6), inTestutil.ProductStock(c, t, f.pool, seeded.productId))

		order, err := f.service.UpdateFulfillment(c, seeded.userId, orderId, request.UpdateFulfillment{Status: "canceled"})
		require.NoError(t, err)
		assert.Equal(t, string(repository.FulfillmentStatusCanceled), order.FulfillmentStatus)
		assert.Equal(t, int32(10), inTestutil.ProductStock(c, t, f.pool, seeded.productId))

		_, err = f.service.UpdateFulfillment(c, seeded.userId, orderId, request.UpdateFulfillment{Status: "canceled"})
		assert.ErrorIs(t, err, inErrors.ErrInvalidTransition)
		assert.Equal(t, int32(10), inTestutil.ProductStock(c, t, f.pool, seeded.productId))
	})

	t.Run("given pending order should reject manual processing", func(t *testing.T) {
		seeded := f.cartWith(t, "1.00", 10, 1)
		order, err := f.service.CreateOrder(c, seeded.userId, request.CreateOrder{CartID: seeded.cartId})
		require.NoError(t, err)

		_, err = f.service.UpdateFulfillment(c, seeded.userId, order.ID, request.UpdateFulfillment{Status: "processing"})
		assert.ErrorIs(t, err, inErrors.ErrInvalidTransition)
		_, err = f.service.UpdateFulfillment(c, seeded.userId, order.ID, request.UpdateFulfillment{Status: "returned"})
		assert.ErrorIs(t, err, inErrors.ErrInvalidFulfillment)
	})
}
