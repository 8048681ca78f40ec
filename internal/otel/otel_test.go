package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestShutdownOtel(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	tests := []struct {
		name      string
		funcs     []ShutdownFunc
		expectErr []error
	}{
		{
			name:  "given no shutdown funcs should return nil",
			funcs: nil,
		},
		{
			name: "given succeeding shutdown funcs should return nil",
			funcs: []ShutdownFunc{
				func(context.Context) error { return nil },
				func(context.Context) error { return nil },
			},
		},
		{
			name: "given failing shutdown funcs should join every error",
			funcs: []ShutdownFunc{
				func(context.Context) error { return errA },
				func(context.Context) error { return nil },
				func(context.Context) error { return errB },
			},
			expectErr: []error{errA, errB},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ShutdownOtel(context.Background(), tt.funcs)
			if len(tt.expectErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, e := range tt.expectErr {
				assert.ErrorIs(t, err, e)
			}
		})
	}
}

func TestNewPropagatorFields(t *testing.T) {
	fields := NewPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
	assert.Contains(t, fields, "uber-trace-id")
	assert.Contains(t, fields, "ot-tracer-traceid")
}

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "span")

	RecordError(nil, span)
	RecordError(errors.New("failed"), span)
	span.End()

	spans := recorder.Ended()
	if assert.Len(t, spans, 1) {
		assert.Equal(t, "failed", spans[0].Status().Description)
		assert.NotEmpty(t, spans[0].Events())
	}
}
