package infra

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/middleware"
)

// NewRouter serves /metrics from gatherer without authentication and returns
// the authenticated subrouter every controller attaches to.
func NewRouter(appName string, secretKey string, gatherer prometheus.Gatherer) (*mux.Router, *mux.Router) {
	router := mux.NewRouter()
	router.Use(otelmux.Middleware(appName), middleware.Logging, middleware.RecoverPanic)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	api.Use(middleware.Auth(secretKey))
	return router, api
}

// Serve blocks until c is done, then shuts the server down.
func Serve(c context.Context, cfg config.Application, handler http.Handler) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "infra Serve").
		Logger()

	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(c) },
		Handler:      handler,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str(constants.KEY_PROCESS, "start server").Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("error=%w occured while server is running", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg(err.Error())
		}
		return err
	case <-c.Done():
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "shutting down http server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down http server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("shutdown http server")

	return <-errCh
}
