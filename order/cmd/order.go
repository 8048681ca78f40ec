package cmd

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/cache"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/event"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/metrics"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/order/internal/controller"
	orderOtel "github.com/Alturino/storefront/order/internal/otel"
	"github.com/Alturino/storefront/order/internal/service"
)

const (
	sinkRedis = "redis"
	sinkAmqp  = "amqp"
)

func RunOrderService(c context.Context) error {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_ORDER_SERVICE).
		Str(constants.KEY_TAG, "main RunOrderService").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "init config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg, err := config.Get(c, constants.APP_ORDER_SERVICE)
	if err != nil {
		return err
	}
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	otelShutdowns, err := otel.InitOtelSdk(c, constants.APP_ORDER_SERVICE, cfg.Otel)
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

	c, span := orderOtel.Tracer.Start(c, "RunOrderService")
	defer span.End()

	logger = logger.With().Str(constants.KEY_PROCESS, "migrating database").Logger()
	logger.Info().Msg("migrating database")
	c = logger.WithContext(c)
	if err = infra.Migrate(c, cfg.Database, infra.MigrationUp); err != nil {
		otel.RecordError(err, span)
		return err
	}
	logger.Info().Msg("migrated database")

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

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	publishers := event.MultiPublisher{
		event.Counted{
			Publisher: event.NewRedisPublisher(cacheClient, constants.CHANNEL_ORDER_EVENTS),
			Sink:      sinkRedis,
			Failures:  m.EventPublishFailures,
		},
	}

	if cfg.Broker.URL != "" {
		logger = logger.With().Str(constants.KEY_PROCESS, "initializing broker").Logger()
		logger.Info().Msg("initializing broker")
		c = logger.WithContext(c)
		broker, err := infra.NewChannelPool(c, cfg.Broker)
		if err != nil {
			otel.RecordError(err, span)
			return err
		}
		defer func() {
			logger.Info().Msg("shutting down broker")
			broker.Close()
			logger.Info().Msg("shutdown broker")
		}()
		publishers = append(publishers, event.Filtered{
			Publisher: event.Counted{
				Publisher: event.NewAmqpPublisher(broker),
				Sink:      sinkAmqp,
				Failures:  m.EventPublishFailures,
			},
			Types: []event.Type{event.TypeOrderPaid},
		})
		logger.Info().Msg("initialized broker")
	} else {
		logger.Warn().Msg("broker url is empty, paid orders are not sent to the warehouse queue")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing order service").Logger()
	logger.Info().Msg("initializing order service")
	orderService := service.NewOrderService(
		db,
		repository.New(db),
		cache.NewProductCache(cacheClient),
		publishers,
		m,
	)
	logger.Info().Msg("initialized order service")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router, api := infra.NewRouter(constants.APP_ORDER_SERVICE, cfg.Application.SecretKey, registry)
	controller.AttachOrderController(api, orderService)
	logger.Info().Msg("initialized router")

	c = logger.WithContext(c)
	if err = infra.Serve(c, cfg.Application, router); err != nil {
		otel.RecordError(err, span)
		return err
	}
	return nil
}
