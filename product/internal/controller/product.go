package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/internal/service"
)

type ProductController struct {
	service *service.ProductService
}

func AttachProductController(mux *mux.Router, service *service.ProductService) {
	controller := ProductController{service: service}

	router := mux.PathPrefix("/products").Subrouter()
	router.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	router.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)
}

func (ctrl ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProducts").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding products").Logger()
	c = logger.WithContext(c)
	products, err := ctrl.service.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found products")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found products", map[string]interface{}{
		"products": products,
	})
}

func (ctrl ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProductById").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating productId").Logger()
	productId, err := inHttp.PathUUID(r, "productId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PRODUCT_ID, productId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	c = logger.WithContext(c)
	product, err := ctrl.service.FindProductById(c, productId)
	if err != nil {
		err = fmt.Errorf("failed finding product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteError(c, w, err)
		return
	}
	logger.Info().Msg("found product")

	inHttp.WriteSuccess(c, w, http.StatusOK, "found product", map[string]interface{}{
		"product": product,
	})
}
