package otel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	jaegerPropagator "go.opentelemetry.io/contrib/propagators/jaeger"
	otPropagator "go.opentelemetry.io/contrib/propagators/ot"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel/metric"
	"github.com/Alturino/storefront/internal/otel/trace"
)

var Tracer = otel.Tracer(constants.APP_STOREFRONT)

type ShutdownFunc func(context.Context) error

func NewPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
		jaegerPropagator.Jaeger{},
		otPropagator.OT{},
	)
}

func newResource(serviceName string) *resource.Resource {
	return resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName))
}

func InitOtelSdk(
	c context.Context,
	serviceName string,
	cfg config.Otel,
) (shutdownFuncs []ShutdownFunc, err error) {
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "otel InitOtelSdk").
		Str("endpoint", cfg.Endpoint()).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing propagator").Logger()
	logger.Info().Msg("initializing propagator")
	otel.SetTextMapPropagator(NewPropagator())
	logger.Info().Msg("initialized propagator")

	res := newResource(serviceName)

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing tracerProvider").Logger()
	logger.Info().Msg("initializing tracerProvider")
	c = logger.WithContext(c)
	tracerProvider, err := trace.InitTracerProvider(c, cfg.Endpoint(), res)
	if err != nil {
		err = fmt.Errorf("failed initializing tracerProvider with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	otel.SetTracerProvider(tracerProvider)
	shutdownFuncs = append(shutdownFuncs, tracerProvider.Shutdown)
	logger.Info().Msg("initialized tracerProvider")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing meterProvider").Logger()
	logger.Info().Msg("initializing meterProvider")
	c = logger.WithContext(c)
	meterProvider, err := metric.InitMeterProvider(c, cfg.Endpoint(), res)
	if err != nil {
		err = fmt.Errorf("failed initializing meterProvider with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return shutdownFuncs, err
	}
	otel.SetMeterProvider(meterProvider)
	shutdownFuncs = append(shutdownFuncs, meterProvider.Shutdown)
	logger.Info().Msg("initialized meterProvider")

	return shutdownFuncs, nil
}

func ShutdownOtel(c context.Context, shutdownFuncs []ShutdownFunc) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	for _, shutdown := range shutdownFuncs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := shutdown(c); err != nil {
				mu.Lock()
				errs = errors.Join(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return errs
}
