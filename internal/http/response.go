package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "http WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "http WriteJsonResponse").Logger()

	w.Header().Set(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	statusCode := http.StatusOK
	if v, ok := body["statusCode"].(int); ok {
		statusCode = v
	}
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

func WriteSuccess(
	c context.Context,
	w http.ResponseWriter,
	statusCode int,
	message string,
	data map[string]interface{},
) {
	body := map[string]interface{}{
		"status":     STATUS_SUCCESS,
		"statusCode": statusCode,
		"message":    message,
	}
	if data != nil {
		body["data"] = data
	}
	WriteJsonResponse(c, w, map[string]string{}, body)
}
