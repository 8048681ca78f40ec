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

	"github.com/Alturino/storefront/cart/internal/otel"
	"github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/cart/pkg/request"
	"github.com/Alturino/storefront/internal"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/validate"
)

type CartController struct {
	service  *service.CartService
	validate *validator.Validate
}

func AttachCartController(mux *mux.Router, service *service.CartService) {
	controller := CartController{service: service, validate: validate.New()}

	userRouter := mux.PathPrefix("/users/{userId}/carts").Subrouter()
	userRouter.HandleFunc("", controller.CreateCart).Methods(http.MethodPost)
	userRouter.HandleFunc("", controller.FindActiveCart).Methods(http.MethodGet)

	router := mux.PathPrefix("/carts").Subrouter()
	router.HandleFunc("/{cartId}", controller.UpdateCart).Methods(http.MethodPatch)
	router.HandleFunc("/{cartId}", controller.DeleteCart).Methods(http.MethodDelete)
	router.HandleFunc("/{cartId}/items", controller.FindCartItems).Methods(http.MethodGet)
	router.HandleFunc("/{cartId}/items", controller.AddCartItem).Methods(http.MethodPost)
	router.HandleFunc("/{cartId}/items/{itemId}", controller.UpdateCartItem).Methods(http.MethodPatch)
	router.HandleFunc("/{cartId}/items/{itemId}", controller.RemoveCartItem).Methods(http.MethodDelete)
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

func (ctrl CartController) CreateCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController CreateCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController CreateCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating userId").Logger()
	userId, err := pathUser(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "creating cart").Logger()
	logger.Info().Msg("creating cart")
	c = logger.WithContext(c)
	cart, err := ctrl.service.CreateCart(c, userId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed creating cart with error=%w", err))
		return
	}
	logger.Info().Msg("created cart")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "created cart", map[string]interface{}{
		"cart": cart,
	})
}

func (ctrl CartController) FindActiveCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindActiveCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController FindActiveCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating userId").Logger()
	userId, err := pathUser(c, r)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(constants.KEY_USER_ID, userId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding active cart").Logger()
	c = logger.WithContext(c)
	cart, err := ctrl.service.FindActiveCart(c, userId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed finding active cart with error=%w", err))
		return
	}
	logger.Info().Msg("found active cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found active cart", map[string]interface{}{
		"cart": cart,
	})
}

func (ctrl CartController) UpdateCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController UpdateCart").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	cartId, err := inHttp.PathUUID(r, "cartId")
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	reqBody := request.UpdateCart{}
	if err = inHttp.DecodeJson(r, &reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	if err = ctrl.validate.StructCtx(c, reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating cart status").Logger()
	c = logger.WithContext(c)
	cart, err := ctrl.service.UpdateCartStatus(c, userId, cartId, reqBody.Status)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed updating cart status with error=%w", err))
		return
	}
	logger.Info().Msg("updated cart status")

	inHttp.WriteSuccess(c, w, http.StatusOK, "updated cart", map[string]interface{}{
		"cart": cart,
	})
}

func (ctrl CartController) DeleteCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController DeleteCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController DeleteCart").
		Logger()

	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	cartId, err := inHttp.PathUUID(r, "cartId")
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Str(constants.KEY_PROCESS, "deleting cart").
		Logger()

	c = logger.WithContext(c)
	cart, err := ctrl.service.DeleteCart(c, userId, cartId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed deleting cart with error=%w", err))
		return
	}
	logger.Info().Msg("deleted cart")

	inHttp.WriteSuccess(c, w, http.StatusOK, "deleted cart", map[string]interface{}{
		"cart": cart,
	})
}

func (ctrl CartController) FindCartItems(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCartItems")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController FindCartItems").
		Logger()

	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	cartId, err := inHttp.PathUUID(r, "cartId")
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Str(constants.KEY_PROCESS, "finding cart items").
		Logger()

	c = logger.WithContext(c)
	items, err := ctrl.service.FindCartItems(c, userId, cartId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed finding cart items with error=%w", err))
		return
	}
	logger.Info().Msg("found cart items")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found cart items", map[string]interface{}{
		"cart_items": items,
	})
}

func (ctrl CartController) AddCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController AddCartItem").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "getting userId from jwtToken").Logger()
	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	cartId, err := inHttp.PathUUID(r, "cartId")
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	reqBody := request.InsertCartItem{}
	if err = inHttp.DecodeJson(r, &reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PROCESS, "validating request body").Logger()
	if err = ctrl.validate.StructCtx(c, reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "adding cart item").Logger()
	logger.Info().Msg("adding cart item")
	c = logger.WithContext(c)
	item, err := ctrl.service.AddCartItem(c, userId, cartId, reqBody)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed adding cart item with error=%w", err))
		return
	}
	logger.Info().Msg("added cart item")

	inHttp.WriteSuccess(c, w, http.StatusCreated, "added cart item", map[string]interface{}{
		"cart_item": item,
	})
}

func (ctrl CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController UpdateCartItem").
		Logger()

	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	cartId, err := inHttp.PathUUID(r, "cartId")
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	itemId, err := inHttp.PathUUID(r, "itemId")
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Str(constants.KEY_CART_ITEM_ID, itemId.String()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	reqBody := request.UpdateCartItem{}
	if err = inHttp.DecodeJson(r, &reqBody); err != nil {
		fail(c, w, span, logger, err)
		return
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating cart item").Logger()
	c = logger.WithContext(c)
	item, err := ctrl.service.UpdateCartItem(c, userId, cartId, itemId, reqBody)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed updating cart item with error=%w", err))
		return
	}
	logger.Info().Msg("updated cart item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "updated cart item", map[string]interface{}{
		"cart_item": item,
	})
}

func (ctrl CartController) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "CartController RemoveCartItem").
		Logger()

	userId, err := internal.UserIdFromJwtToken(c)
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	cartId, err := inHttp.PathUUID(r, "cartId")
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	itemId, err := inHttp.PathUUID(r, "itemId")
	if err != nil {
		fail(c, w, span, logger, err)
		return
	}
	logger = logger.With().
		Str(constants.KEY_USER_ID, userId.String()).
		Str(constants.KEY_CART_ID, cartId.String()).
		Str(constants.KEY_CART_ITEM_ID, itemId.String()).
		Str(constants.KEY_PROCESS, "removing cart item").
		Logger()

	c = logger.WithContext(c)
	item, err := ctrl.service.RemoveCartItem(c, userId, cartId, itemId)
	if err != nil {
		fail(c, w, span, logger, fmt.Errorf("failed removing cart item with error=%w", err))
		return
	}
	logger.Info().Msg("removed cart item")

	inHttp.WriteSuccess(c, w, http.StatusOK, "removed cart item", map[string]interface{}{
		"cart_item": item,
	})
}
