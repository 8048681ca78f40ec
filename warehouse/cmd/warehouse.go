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
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/warehouse/internal/consumer"
)

func RunWarehouseConsumer(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_WAREHOUSE_CONSUMER).
		Str(constants.KEY_TAG, "main RunWarehouseConsumer").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg, err := config.Get(c, constants.APP_WAREHOUSE_CONSUMER)
	if err != nil {
		return err
	}
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_WAREHOUSE_CONSUMER, cfg.Otel)
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

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing broker").Logger()
	logger.Info().Msg("initializing broker")
	c = logger.WithContext(c)
	broker, err := infra.NewChannelPool(c, cfg.Broker)
	if err != nil {
		return err
	}
	defer func() {
		logger.Info().Msg("shutting down broker")
		broker.Close()
		logger.Info().Msg("shutdown broker")
	}()
	logger.Info().Msg("initialized broker")

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	tracker := consumer.NewTracker()

	workerCount := cfg.Broker.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "starting workers").Int("workers", workerCount).Logger()
	logger.Info().Msg("starting workers")
	g, gc := errgroup.WithContext(logger.WithContext(c))
	for i := 1; i <= workerCount; i++ {
		worker, err := consumer.NewWorker(i, broker.Connection(), cfg.Broker.Queue, tracker, m)
		if err != nil {
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		g.Go(func() error { return worker.Start(gc) })
	}
	logger.Info().Msg("started workers")

	router, _ := infra.NewRouter(constants.APP_WAREHOUSE_CONSUMER, cfg.Application.SecretKey, registry)
	g.Go(func() error { return infra.Serve(gc, cfg.Application, router) })

	err = g.Wait()
	logger.Info().Object("summary", tracker).Msg("warehouse consumer stopped")
	return err
}
