package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/cache"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/product/internal/controller"
	productOtel "github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/internal/service"
)

func RunProductService(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_PRODUCT_SERVICE).
		Str(constants.KEY_TAG, "main RunProductService").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg, err := config.Get(c, constants.APP_PRODUCT_SERVICE)
	if err != nil {
		return err
	}
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_PRODUCT_SERVICE, cfg.Otel)
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

	c, span := productOtel.Tracer.Start(c, "RunProductService")
	defer span.End()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	db, err := infra.NewDatabaseClient(c, cfg.Database)
	if err != nil {
		otel.RecordError(err, span)
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down database")
		db.Close()
		logger.Info().Msg("shutdown database")
	}()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cacheClient, err := infra.NewCacheClient(c, cfg.Cache)
	if err != nil {
		otel.RecordError(err, span)
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

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing product service").Logger()
	logger.Info().Msg("initializing product service")
	productService := service.NewProductService(repository.New(db), cache.NewProductCache(cacheClient))
	logger.Info().Msg("initialized product service")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router, api := infra.NewRouter(constants.APP_PRODUCT_SERVICE, cfg.Application.SecretKey, prometheus.NewRegistry())
	controller.AttachProductController(api, productService)
	logger.Info().Msg("initialized router")

	c = logger.WithContext(c)
	if err = infra.Serve(c, cfg.Application, router); err != nil {
		otel.RecordError(err, span)
		return err
	}
	return nil
}
