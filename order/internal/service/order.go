package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/storefront/internal/cache"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/event"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/metrics"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

type OrderService struct {
	pool      *pgxpool.Pool
	queries   *repository.Queries
	products  cache.ProductCache
	publisher event.Publisher
	metrics   *metrics.Metrics
}

func NewOrderService(
	pool *pgxpool.Pool,
	queries *repository.Queries,
	products cache.ProductCache,
	publisher event.Publisher,
	metrics *metrics.Metrics,
) *OrderService {
	return &OrderService{
		pool:      pool,
		queries:   queries,
		products:  products,
		publisher: publisher,
		metrics:   metrics,
	}
}

func checkoutResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultCreated
	case errors.Is(err, inErrors.ErrCartNotFound), errors.Is(err, inErrors.ErrCartEmpty):
		return metrics.ResultRejected
	default:
		return metrics.ResultFailed
	}
}

// CreateOrder converts an active cart into a pending order. Flipping the cart
// to checked_out is the serialization point: of two concurrent calls on the
// same cart only one finds it active.
func (svc *OrderService) CreateOrder(
	c context.Context,
	userId uuid.UUID,
	param request.CreateOrder,
) (res response.Order, err error) {
	c, span := otel.Tracer.Start(c, "OrderService CreateOrder")
	defer span.End()

	defer func() { svc.metrics.Checkouts.WithLabelValues(checkoutResult(err)).Inc() }()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService CreateOrder").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, param.CartID.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	defer infra.RollbackTx(logger.WithContext(c), tx, span)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "checking out cart").Logger()
	logger.Trace().Msg("checking out cart")
	cart, err := qtx.CheckoutCart(c, repository.CheckoutCartParams{ID: param.CartID, UserID: userId})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed checking out cart with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Msg("checked out cart")

	logger = logger.With().Str(constants.KEY_PROCESS, "finding cart items").Logger()
	logger.Trace().Msg("finding cart items")
	items, err := qtx.FindCartItemsByCartId(c, cart.ID)
	if err != nil {
		err = fmt.Errorf("failed finding cart items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	if len(items) == 0 {
		err = fmt.Errorf("failed creating order with error=%w", inErrors.ErrCartEmpty)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Trace().Int(constants.KEY_CART_ITEMS, len(items)).Msg("found cart items")

	total := decimal.Zero
	for _, item := range items {
		price := repository.DecimalFromNumeric(item.Price)
		total = total.Add(price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	logger = logger.With().Str(constants.KEY_TOTAL_AMOUNT, total.StringFixed(2)).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting order").Logger()
	logger.Trace().Msg("inserting order")
	order, err := qtx.InsertOrder(c, repository.InsertOrderParams{
		CartID:      cart.ID,
		UserID:      userId,
		TotalAmount: repository.NumericFromDecimal(total),
	})
	if err != nil {
		err = fmt.Errorf("failed inserting order with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(constants.KEY_ORDER_ID, order.ID.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting order items").Logger()
	logger.Trace().Msg("inserting order items")
	orderItems := make([]repository.InsertOrderItemsParams, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, repository.InsertOrderItemsParams{
			OrderID:         order.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.Price,
		})
	}
	if _, err = qtx.InsertOrderItems(c, orderItems); err != nil {
		err = fmt.Errorf("failed inserting order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order items").Logger()
	inserted, err := qtx.FindOrderItemsByOrderId(c, order.ID)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("created order")

	res = order.Response()
	res.OrderItems = make([]response.OrderItem, 0, len(inserted))
	for _, item := range inserted {
		res.OrderItems = append(res.OrderItems, item.Response())
	}

	svc.publish(logger.WithContext(c), orderEvent(event.TypeOrderCreated, res))
	return res, nil
}

func (svc *OrderService) FindOrders(c context.Context, userId uuid.UUID) ([]response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrders").
		Str(constants.KEY_USER_ID, userId.String()).
		Logger()

	orders, err := svc.queries.FindOrdersByUserId(c, userId)
	if err != nil {
		err = fmt.Errorf("failed finding orders with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_ORDERS, len(orders)).Msg("found orders")

	res := make([]response.Order, 0, len(orders))
	for _, order := range orders {
		res = append(res, order.Response())
	}
	return res, nil
}

// FindOrderById only returns orders owned by userId.
func (svc *OrderService) FindOrderById(
	c context.Context,
	userId uuid.UUID,
	orderId uuid.UUID,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrderById").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	order, err := svc.findOrder(c, userId, orderId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	items, err := svc.queries.FindOrderItemsByOrderId(c, orderId)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msg("found order")

	res := order.Response()
	res.OrderItems = make([]response.OrderItem, 0, len(items))
	for _, item := range items {
		res.OrderItems = append(res.OrderItems, item.Response())
	}
	return res, nil
}

func (svc *OrderService) FindOrderItems(
	c context.Context,
	userId uuid.UUID,
	orderId uuid.UUID,
) ([]response.OrderItem, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindOrderItems").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	if _, err := svc.findOrder(c, userId, orderId); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	items, err := svc.queries.FindOrderItemsByOrderId(c, orderId)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_ORDER_ITEMS, len(items)).Msg("found order items")

	res := make([]response.OrderItem, 0, len(items))
	for _, item := range items {
		res = append(res, item.Response())
	}
	return res, nil
}

func (svc *OrderService) findOrder(c context.Context, userId uuid.UUID, orderId uuid.UUID) (repository.Order, error) {
	order, err := svc.queries.FindOrderById(c, repository.FindOrderByIdParams{ID: orderId, UserID: userId})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotFound
		}
		return repository.Order{}, fmt.Errorf("failed finding order with error=%w", err)
	}
	return order, nil
}

// lockOrder holds the order row until the transaction ends.
func lockOrder(
	c context.Context,
	qtx *repository.Queries,
	userId uuid.UUID,
	orderId uuid.UUID,
) (repository.Order, error) {
	order, err := qtx.FindOrderByIdForUpdate(c, repository.FindOrderByIdForUpdateParams{ID: orderId, UserID: userId})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotFound
		}
		return repository.Order{}, fmt.Errorf("failed locking order with error=%w", err)
	}
	return order, nil
}

func orderEvent(t event.Type, order response.Order) event.OrderEvent {
	items := make([]event.Item, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, event.Item{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
		})
	}
	return event.OrderEvent{
		Type:              t,
		OrderID:           order.ID,
		UserID:            order.UserID,
		CartID:            order.CartID,
		TotalAmount:       order.TotalAmount,
		FulfillmentStatus: order.FulfillmentStatus,
		Items:             items,
		OccurredAt:        time.Now().UTC(),
	}
}

// publish runs after commit. A failed publish never fails the request.
func (svc *OrderService) publish(c context.Context, evt event.OrderEvent) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_PROCESS, "publishing event").
		Str(constants.KEY_EVENT, string(evt.Type)).
		Logger()

	if err := svc.publisher.Publish(c, evt); err != nil {
		logger.Warn().Err(err).Msg("failed publishing event")
		return
	}
	logger.Debug().Msg("published event")
}
