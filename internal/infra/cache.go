package infra

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel"
)

func NewCacheClient(c context.Context, cfg config.Cache) (*redis.Client, error) {
	c, span := otel.Tracer.Start(c, "infra NewCacheClient")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "infra NewCacheClient").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing redis client").Logger()
	logger.Info().Msg("initializing redis client")
	cache := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	logger.Info().Msg("initialized redis client")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing redis otel tracing").Logger()
	logger.Info().Msg("initializing redis otel tracing")
	err := redisotel.InstrumentTracing(cache, redisotel.WithAttributes(semconv.DBSystemRedis))
	if err != nil {
		err = fmt.Errorf("failed initializing otel redis tracing with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("initialized redis otel tracing")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing redis otel metric").Logger()
	logger.Info().Msg("initializing redis otel metric")
	err = redisotel.InstrumentMetrics(cache, redisotel.WithAttributes(semconv.DBSystemRedis))
	if err != nil {
		err = fmt.Errorf("failed initializing otel redis metric with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("initialized redis otel metric")

	logger = logger.With().Str(constants.KEY_PROCESS, "pinging redis").Logger()
	logger.Info().Msg("pinging redis")
	if err = cache.Ping(c).Err(); err != nil {
		_ = cache.Close()
		err = fmt.Errorf("failed pinging redis with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("pinged redis")

	return cache, nil
}
