package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/otel"
)

var redactedFields = []string{"password", "card_number", "cvv"}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(inHttp.KEY_HEADER_REQUEST_ID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c, span := otel.Tracer.Start(
			r.Context(),
			"middleware Logging",
			trace.WithAttributes(
				attribute.String(constants.KEY_REQUEST_ID, requestID),
				attribute.String(constants.KEY_REQUEST_HOST, r.Host),
				attribute.String(constants.KEY_REQUEST_IP, r.RemoteAddr),
				attribute.String(constants.KEY_REQUEST_METHOD, r.Method),
				attribute.String(constants.KEY_REQUEST_URI, r.RequestURI),
			),
		)
		defer span.End()

		requestBody := map[string]interface{}{}
		if r.Body != nil {
			var buffer bytes.Buffer
			tee := io.TeeReader(r.Body, &buffer)
			_ = json.NewDecoder(tee).Decode(&requestBody)
			_, _ = io.Copy(io.Discard, tee)
			r.Body = io.NopCloser(&buffer)
		}
		redact(requestBody)

		logger := zerolog.Ctx(c).
			With().
			Str(constants.KEY_REQUEST_ID, requestID).
			Dict(constants.KEY_REQUEST, zerolog.Dict().
				Str(constants.KEY_REQUEST_HOST, r.Host).
				Str(constants.KEY_REQUEST_IP, r.RemoteAddr).
				Str(constants.KEY_REQUEST_METHOD, r.Method).
				Str(constants.KEY_REQUEST_URI, r.RequestURI).
				Any(constants.KEY_BODY, requestBody)).
			Str(constants.KEY_TAG, "middleware Logging").
			Logger()
		logger.Trace().Msg("attached request value to logger")

		c = log.AttachRequestIDToContext(c, requestID)
		c = logger.WithContext(c)
		w.Header().Set(inHttp.KEY_HEADER_REQUEST_ID, requestID)

		next.ServeHTTP(w, r.WithContext(c))
	})
}

func redact(body map[string]interface{}) {
	for k, v := range body {
		if nested, ok := v.(map[string]interface{}); ok {
			redact(nested)
			continue
		}
		for _, field := range redactedFields {
			if k == field && v != nil {
				body[k] = "****"
			}
		}
	}
}
