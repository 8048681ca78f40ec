package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

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

// AttachPayment records payment for a pending order and moves it to
// processing in the same transaction.
func (svc *OrderService) AttachPayment(
	c context.Context,
	userId uuid.UUID,
	orderId uuid.UUID,
	param request.AttachPayment,
) (response.Payment, error) {
	c, span := otel.Tracer.Start(c, "OrderService AttachPayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService AttachPayment").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Object(constants.KEY_PAYMENT, param).
		Logger()

	method := repository.PaymentMethod(param.Method)
	if !method.Valid() ||
		(method == repository.PaymentMethodCreditCard && param.Card == nil) ||
		(method == repository.PaymentMethodPaypal && param.Paypal == nil) {
		err := fmt.Errorf("failed attaching payment method=%s with error=%w", param.Method, inErrors.ErrInvalidPaymentMethod)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}

	var fingerprint []byte
	if param.Card != nil && method == repository.PaymentMethodCreditCard {
		logger = logger.With().Str(constants.KEY_PROCESS, "fingerprinting card").Logger()
		var err error
		fingerprint, err = bcrypt.GenerateFromPassword([]byte(param.Card.CardNumber), bcrypt.DefaultCost)
		if err != nil {
			err = fmt.Errorf("failed fingerprinting card with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Payment{}, err
		}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := svc.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	defer infra.RollbackTx(logger.WithContext(c), tx, span)
	qtx := svc.queries.WithTx(tx)

	logger = logger.With().Str(constants.KEY_PROCESS, "locking order").Logger()
	order, err := lockOrder(c, qtx, userId, orderId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}

	current := fulfillment.Status(order.FulfillmentStatus)
	if current != fulfillment.Pending {
		err = fmt.Errorf("failed paying order in status=%s with error=%w", current, inErrors.ErrOrderNotPending)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	if err = fulfillment.Transition(current, fulfillment.Processing, true); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}

	total := repository.DecimalFromNumeric(order.TotalAmount)
	if !param.Amount.Equal(total) {
		err = fmt.Errorf(
			"failed paying amount=%s for total=%s with error=%w",
			param.Amount.StringFixed(2),
			total.StringFixed(2),
			inErrors.ErrPaymentAmountMismatch,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting payment info").Logger()
	logger.Trace().Msg("inserting payment info")
	payment, err := qtx.InsertPaymentInfo(c, repository.InsertPaymentInfoParams{
		OrderID:       orderId,
		Method:        method,
		Provider:      param.Provider,
		TransactionID: param.TransactionID,
		Amount:        repository.NumericFromDecimal(param.Amount),
	})
	if err != nil {
		if infra.IsUniqueViolation(err, "") {
			err = inErrors.ErrPaymentExists
		}
		err = fmt.Errorf("failed inserting payment info with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}

	res := response.Payment{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		Method:        string(payment.Method),
		Provider:      payment.Provider,
		TransactionID: payment.TransactionID,
		Amount:        repository.DecimalFromNumeric(payment.Amount),
		CreatedAt:     payment.CreatedAt.Time,
	}

	switch method {
	case repository.PaymentMethodCreditCard:
		logger = logger.With().Str(constants.KEY_PROCESS, "inserting card info").Logger()
		card, err := qtx.InsertCardInfo(c, repository.InsertCardInfoParams{
			PaymentInfoID:   payment.ID,
			CardHolder:      param.Card.CardHolder,
			CardLast4:       param.Card.Last4(),
			CardFingerprint: string(fingerprint),
			ExpiryMonth:     param.Card.ExpiryMonth,
			ExpiryYear:      param.Card.ExpiryYear,
		})
		if err != nil {
			err = fmt.Errorf("failed inserting card info with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Payment{}, err
		}
		res.Card = &response.Card{
			CardHolder:  card.CardHolder,
			CardLast4:   card.CardLast4,
			ExpiryMonth: card.ExpiryMonth,
			ExpiryYear:  card.ExpiryYear,
		}
	case repository.PaymentMethodPaypal:
		logger = logger.With().Str(constants.KEY_PROCESS, "inserting paypal info").Logger()
		paypal, err := qtx.InsertPaypalInfo(c, repository.InsertPaypalInfoParams{
			PaymentInfoID: payment.ID,
			Email:         param.Paypal.Email,
		})
		if err != nil {
			err = fmt.Errorf("failed inserting paypal info with error=%w", err)
			inOtel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.Payment{}, err
		}
		res.Paypal = &response.Paypal{Email: paypal.Email}
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating fulfillment status").Logger()
	order, err = qtx.UpdateOrderFulfillmentStatus(c, repository.UpdateOrderFulfillmentStatusParams{
		Next:    repository.FulfillmentStatusProcessing,
		ID:      orderId,
		Current: repository.FulfillmentStatusPending,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrOrderNotPending
		}
		err = fmt.Errorf("failed updating fulfillment status with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding order items").Logger()
	items, err := qtx.FindOrderItemsByOrderId(c, orderId)
	if err != nil {
		err = fmt.Errorf("failed finding order items with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	if err = tx.Commit(c); err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	logger.Info().Msg("attached payment")
	svc.metrics.FulfillmentChanges.WithLabelValues(string(fulfillment.Processing)).Inc()

	paid := order.Response()
	for _, item := range items {
		paid.OrderItems = append(paid.OrderItems, item.Response())
	}
	svc.publish(logger.WithContext(c), orderEvent(event.TypeOrderPaid, paid))
	return res, nil
}

func (svc *OrderService) FindPayment(
	c context.Context,
	userId uuid.UUID,
	orderId uuid.UUID,
) (response.Payment, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindPayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderService FindPayment").
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	if _, err := svc.findOrder(c, userId, orderId); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}

	payment, err := svc.queries.FindPaymentInfoByOrderId(c, orderId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.ErrPaymentNotFound
		}
		err = fmt.Errorf("failed finding payment info with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Payment{}, err
	}
	logger.Info().Msg("found payment info")

	return payment.Response(), nil
}
