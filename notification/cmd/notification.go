package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/notification/internal/listener"
)

func RunNotificationService(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_NOTIFICATION_SERVICE).
		Str(constants.KEY_TAG, "main RunNotificationService").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg, err := config.Get(c, constants.APP_NOTIFICATION_SERVICE)
	if err != nil {
		return err
	}
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_NOTIFICATION_SERVICE, cfg.Otel)
	defer func() {
		logger.Info().Msg("shutting down otel")
		if err := otel.ShutdownOtel(context.WithoutCancel(c), otelShutdowns); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()
	if err != nil {
		return fmt.Errorf("failed initializing otel sdk with error=%w", err)
	}
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cacheClient, err := infra.NewCacheClient(c, cfg.Cache)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down cache")
		if err := cacheClient.Close(); err != nil {
			err = fmt.Errorf("failed shutting down cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache")
	}()
	logger.Info().Msg("initialized cache")

	if cfg.Notification.WebhookURL == "" {
		logger.Warn().Msg("webhook url is empty, order events will only be logged")
	}
	l := listener.NewListener(cacheClient, cfg.Notification.WebhookURL)
	router, _ := infra.NewRouter(constants.APP_NOTIFICATION_SERVICE, cfg.Application.SecretKey, prometheus.NewRegistry())

	logger = logger.With().Str(constants.KEY_PROCESS, "listening").Logger()
	g, gc := errgroup.WithContext(logger.WithContext(c))
	g.Go(func() error { return l.Run(gc, constants.CHANNEL_ORDER_EVENTS) })
	g.Go(func() error { return infra.Serve(gc, cfg.Application, router) })
	return g.Wait()
}
