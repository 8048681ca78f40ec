package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/event"
	"github.com/Alturino/storefront/internal/infra"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/order/internal/fulfillment"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

// UpdateFulfillment ships, delivers or cancels an order. Processing is only
// reachable through AttachPayment.
func (svc *OrderService) UpdateFulfillment(
	c context.Context,
	userId uuid.UUID,
	orderId uuid.UUID,
	param request.UpdateFulfillment,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpdateFulfillment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService UpdateFulfillment").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Str(constants.KEY_STATUS, param.Status).
		Logger()

	next, err := fulfillment.Parse(param.Status)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	defer infra.RollbackTx(logger.WithContext(c), tx, span)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "locking order").Logger()
	order, err := lockOrder(c, qtx, userId, orderId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	current := fulfillment.Status(order.FulfillmentStatus)
	if err = fulfillment.Transition(current, next, false); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	if next == fulfillment.Shipped {
		logger = logger.With().Str(constants.KEY_PROCESS, "finding shipping info").Logger()
		if _, err = qtx.FindShippingInfoByOrderId(c, orderId); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				err = inErrors.ErrShippingRequired
			}
			err = fmt.Errorf("failed shipping order with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order items").Logger()
	items, err := qtx.FindOrderItemsByOrderId(c, orderId)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}

	var restocked []uuid.UUID
	if next == fulfillment.Canceled {
		logger = logger.With().Str(constants.KEY_PROCESS, "restocking order items").Logger()
		restocked, err = restockOrderItems(c, qtx, items)
		if err != nil {
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Order{}, err
		}
		logger.Trace().Int(constants.KEY_PRODUCTS, len(restocked)).Msg("restocked order items")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating fulfillment status").Logger()
	order, err = qtx.UpdateOrderFulfillmentStatus(c, repository.UpdateOrderFulfillmentStatusParams{
		Next:    repository.FulfillmentStatus(next),
		ID:      orderId,
		Current: repository.FulfillmentStatus(current),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrInvalidTransition
		}
		err = fmt.Errorf("failed updating fulfillment status with error=%w", err)
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
	logger.Info().Str("from", current.String()).Msg("updated fulfillment status")
	svc.metrics.FulfillmentChanges.WithLabelValues(next.String()).Inc()

	svc.products.Invalidate(logger.WithContext(c), restocked...)

	res := order.Response()
	res.OrderItems = make([]response.OrderItem, 0, len(items))
	for _, item := range items {
		res.OrderItems = append(res.OrderItems, item.Response())
	}
	svc.publish(logger.WithContext(c), orderEvent(event.TypeForStatus(next.String()), res))
	return res, nil
}

// restockOrderItems touches products in id order so concurrent restocks
// cannot deadlock.
func restockOrderItems(
	c context.Context,
	qtx *repository.Queries,
	items []repository.FindOrderItemsByOrderIdRow,
) ([]uuid.UUID, error) {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b repository.FindOrderItemsByOrderIdRow) int {
		return bytes.Compare(a.ProductID[:], b.ProductID[:])
	})
	productIds := make([]uuid.UUID, 0, len(sorted))
	for _, item := range sorted {
		_, err := qtx.IncrementProductStock(c, repository.IncrementProductStockParams{
			Quantity: item.Quantity,
			ID:       item.ProductID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed restocking productId=%s with error=%w", item.ProductID, err)
		}
		productIds = append(productIds, item.ProductID)
	}
	return productIds, nil
}
