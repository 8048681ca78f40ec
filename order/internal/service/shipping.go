package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	"github.com/Alturino/storefront/internal/infra"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/order/internal/fulfillment"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/pkg/request"
	"github.com/Alturino/storefront/order/pkg/response"
)

const shippingOrderIndex = "shipping_infos_order_id_key"

func newTrackingNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "TRK" + id[:16]
}

// AttachShipping records the shipping address while the order is pending or
// processing.
func (svc *OrderService) AttachShipping(
	c context.Context,
	userId uuid.UUID,
	orderId uuid.UUID,
	param request.AttachShipping,
) (response.Shipping, error) {
	c, span := otel.Tracer.Start(c, "OrderService AttachShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService AttachShipping").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Shipping{}, err
	}
	defer infra.RollbackTx(logger.WithContext(c), tx, span)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "locking order").Logger()
	order, err := lockOrder(c, qtx, userId, orderId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Shipping{}, err
	}
	if status := fulfillment.Status(order.FulfillmentStatus); !status.AllowsShipping() {
		err = fmt.Errorf("failed attaching shipping in status=%s with error=%w", status, inErrors.ErrOrderNotShippable)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Shipping{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting shipping info").Logger()
	logger.Trace().Msg("inserting shipping info")
	shipping, err := qtx.InsertShippingInfo(c, repository.InsertShippingInfoParams{
		OrderID:        orderId,
		FullName:       param.FullName,
		Address:        param.Address,
		City:           param.City,
		Country:        param.Country,
		PostalCode:     param.PostalCode,
		TrackingNumber: newTrackingNumber(),
	})
	if err != nil {
		if infra.IsUniqueViolation(err, shippingOrderIndex) {
			err = inErrors.ErrShippingExists
		}
		err = fmt.Errorf("failed inserting shipping info with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Shipping{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Shipping{}, err
	}
	logger.Info().Str("trackingNumber", shipping.TrackingNumber).Msg("attached shipping info")

	return shipping.Response(), nil
}

func (svc *OrderService) FindShipping(
	c context.Context,
	userId uuid.UUID,
	orderId uuid.UUID,
) (response.Shipping, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindShipping").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	if _, err := svc.findOrder(c, userId, orderId); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Shipping{}, err
	}

	shipping, err := svc.queries.FindShippingInfoByOrderId(c, orderId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrShippingNotFound
		}
		err = fmt.Errorf("failed finding shipping info with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Shipping{}, err
	}
	logger.Info().Msg("found shipping info")

	return shipping.Response(), nil
}
