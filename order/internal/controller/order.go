package controller

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/internal"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
	"github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/internal/service"
	"github.com/Alturino/storefront/order/pkg/request"
)

type OrderController struct {
	service  *service.OrderService
	validate *validator.Validate
}

func AttachOrderController(mux *mux.Router, service *service.OrderService) {
	controller := OrderController{service: service, validate: validate.New()}

	userRouter := mux.PathPrefix("/users/{userId}/orders").Subrouter()
	userRouter.HandleFunc("", controller.CreateOrder).Methods(http.MethodPost)
	userRouter.HandleFunc("", controller.FindOrders).Methods(http.MethodGet)

	router := mux.PathPrefix("/orders").Subrouter()
	router.HandleFunc("/{orderId}", controller.FindOrderById).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}/items", controller.FindOrderItems).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}/payment", controller.AttachPayment).Methods(http.MethodPost)
	router.HandleFunc("/{orderId}/payment", controller.FindPayment).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}/shipping", controller.AttachShipping).Methods(http.MethodPost)
	router.HandleFunc("/{orderId}/shipping", controller.FindShipping).Methods(http.MethodGet)
	router.HandleFunc("/{orderId}/fulfillment", controller.UpdateFulfillment).Methods(http.MethodPatch)
}

func fail(c context.Context, w http.ResponseWriter, span trace.Span, logger zerolog.Logger, err error) {
	inOtel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	inHttp.WriteError(c, w, err)
}

// pathUser returns the path user once it matches the token subject.
func pathUser(c context.Context, r *http.Request) (uuid.UUID, error) {
	userId, err := inHttp.PathUUID(r, "userId")
	if err != nil {
		return uuid.Nil, err
	}
	if err = internal.RequireUser(c, userId); err != nil {
		return uuid.Nil, err
	}
	return userId, nil
}

// orderScope resolves the token user and the path order.
func orderScope(c context.Context, r *http.Request) (uuid.UUID, uuid.UUID, error) {
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	orderId, err := inHttp.PathUUID(r, "orderId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return userId, orderId, nil
}

func (ctrl OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController CreateOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController CreateOrder").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating userId").Logger()
	userId, err := pathUser(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	reqBody := request.CreateOrder{}
	if err = inHttp.DecodeJson(r, &reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	if err = ctrl.validate.StructCtx(c, reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_CART_ID, reqBody.CartID.String()).
		Str(constants.KEY_PROCESS, "creating order").
		Logger()
	logger.Info().Msg("creating order")
	c = logger.WithContext(c)
	order, err := ctrl.service.CreateOrder(c, userId, reqBody)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed creating order with error=%w", err))
		return
	}
	logger.Info().Str(constants.KEY_ORDER_ID, order.ID.String()).Msg("created order")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "created order", map[string]interface{}{
		"order": order,
	})
}

func (ctrl OrderController) FindOrders(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrders")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindOrders").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating userId").Logger()
	userId, err := pathUser(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_PROCESS, "finding orders").
		Logger()

	c = logger.WithContext(c)
	orders, err := ctrl.service.FindOrders(c, userId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed finding orders with error=%w", err))
		return
	}
	logger.Info().Msg("found orders")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found orders", map[string]interface{}{
		"orders": orders,
	})
}

func (ctrl OrderController) FindOrderById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindOrderById").
		Logger()

	userId, orderId, err := orderScope(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Str(constants.KEY_PROCESS, "finding order").
		Logger()

	c = logger.WithContext(c)
	order, err := ctrl.service.FindOrderById(c, userId, orderId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed finding order with error=%w", err))
		return
	}
	logger.Info().Msg("found order")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found order", map[string]interface{}{
		"order": order,
	})
}

func (ctrl OrderController) FindOrderItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindOrderItems").
		Logger()

	userId, orderId, err := orderScope(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Str(constants.KEY_PROCESS, "finding order items").
		Logger()

	c = logger.WithContext(c)
	items, err := ctrl.service.FindOrderItems(c, userId, orderId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed finding order items with error=%w", err))
		return
	}
	logger.Info().Msg("found order items")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found order items", map[string]interface{}{
		"order_items": items,
	})
}

func (ctrl OrderController) AttachPayment(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController AttachPayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController AttachPayment").
		Logger()

	userId, orderId, err := orderScope(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	reqBody := request.AttachPayment{}
	if err = inHttp.DecodeJson(r, &reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	if err = ctrl.validate.StructCtx(c, reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "attaching payment").Logger()
	logger.Info().Msg("attaching payment")
	c = logger.WithContext(c)
	payment, err := ctrl.service.AttachPayment(c, userId, orderId, reqBody)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed attaching payment with error=%w", err))
		return
	}
	logger.Info().Msg("attached payment")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "attached payment", map[string]interface{}{
		"payment": payment,
	})
}

func (ctrl OrderController) FindPayment(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindPayment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindPayment").
		Logger()

	userId, orderId, err := orderScope(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Str(constants.KEY_PROCESS, "finding payment").
		Logger()

	c = logger.WithContext(c)
	payment, err := ctrl.service.FindPayment(c, userId, orderId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed finding payment with error=%w", err))
		return
	}
	logger.Info().Msg("found payment")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found payment", map[string]interface{}{
		"payment": payment,
	})
}

func (ctrl OrderController) AttachShipping(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController AttachShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController AttachShipping").
		Logger()

	userId, orderId, err := orderScope(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	reqBody := request.AttachShipping{}
	if err = inHttp.DecodeJson(r, &reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	if err = ctrl.validate.StructCtx(c, reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "attaching shipping").Logger()
	logger.Info().Msg("attaching shipping")
	c = logger.WithContext(c)
	shipping, err := ctrl.service.AttachShipping(c, userId, orderId, reqBody)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed attaching shipping with error=%w", err))
		return
	}
	logger.Info().Msg("attached shipping")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "attached shipping", map[string]interface{}{
		"shipping": shipping,
	})
}

func (ctrl OrderController) FindShipping(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindShipping")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController FindShipping").
		Logger()

	userId, orderId, err := orderScope(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Str(constants.KEY_PROCESS, "finding shipping").
		Logger()

	c = logger.WithContext(c)
	shipping, err := ctrl.service.FindShipping(c, userId, orderId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed finding shipping with error=%w", err))
		return
	}
	logger.Info().Msg("found shipping")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found shipping", map[string]interface{}{
		"shipping": shipping,
	})
}

func (ctrl OrderController) UpdateFulfillment(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpdateFulfillment")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "OrderController UpdateFulfillment").
		Logger()

	userId, orderId, err := orderScope(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_ORDER_ID, orderId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	reqBody := request.UpdateFulfillment{}
	if err = inHttp.DecodeJson(r, &reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	if err = ctrl.validate.StructCtx(c, reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_STATUS, reqBody.Status).
		Str(constants.KEY_PROCESS, "updating fulfillment").
		Logger()
	logger.Info().Msg("updating fulfillment")
	c = logger.WithContext(c)
	order, err := ctrl.service.UpdateFulfillment(c, userId, orderId, reqBody)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed updating fulfillment with error=%w", err))
		return
	}
	logger.Info().Msg("updated fulfillment")

	inHttp.WriteSuccess(c, w, http.StatusOK, "updated fulfillment", map[string]interface{}{
		"order": order,
	})
}
