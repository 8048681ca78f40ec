package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/otel"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, span := otel.Tracer.Start(r.Context(), "middleware RecoverPanic")
		defer span.End()

		logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "middleware RecoverPanic").Logger()
		defer func() {
			if recovered := recover(); recovered != nil {
				err, ok := recovered.(error)
				if !ok {
					err = fmt.Errorf("%v", recovered)
				}
				err = fmt.Errorf("recovered from panic with error=%w", err)
				otel.RecordError(err, span)
				logger.Error().Err(err).Stack().Msg(err.Error())
				inHttp.WriteError(c, w, err)
			}
		}()

		next.ServeHTTP(w, r.WithContext(c))
	})
}
