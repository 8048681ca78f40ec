package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/otel"
)

// Auth verifies the bearer token and attaches it to the request context.
func Auth(secretKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, span := otel.Tracer.Start(r.Context(), "middleware Auth")
			defer span.End()

			logger := zerolog.Ctx(c).With().Str(constants.KEY_TAG, "middleware Auth").Logger()

			logger = logger.With().Str(constants.KEY_PROCESS, "reading authorization header").Logger()
			logger.Trace().Msg("reading authorization header")
			authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
			scheme, token, found := strings.Cut(authorization, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
				err := fmt.Errorf("failed reading authorization header with error=%w", inErrors.ErrEmptyAuth)
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteError(c, w, err)
				return
			}
			logger.Trace().Msg("read authorization header")

			logger = logger.With().Str(constants.KEY_PROCESS, "verifying token").Logger()
			logger.Trace().Msg("verifying token")
			c = logger.WithContext(c)
			jwtToken, err := internal.VerifyToken(c, secretKey, token)
			if err != nil {
				err = fmt.Errorf("failed verifying token with error=%w", err)
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteError(c, w, err)
				return
			}
			logger.Trace().Msg("verified token")

			c = internal.AttachJwtToken(r.Context(), jwtToken)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
