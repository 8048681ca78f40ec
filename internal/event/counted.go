package event

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Counted increments Failures{sink} whenever the wrapped publisher fails.
type Counted struct {
	Publisher Publisher
	Sink      string
	Failures  *prometheus.CounterVec
}

func (p Counted) Publish(c context.Context, evt OrderEvent) error {
	err := p.Publisher.Publish(c, evt)
	if err != nil && p.Failures != nil {
		p.Failures.WithLabelValues(p.Sink).Inc()
	}
	return err
}
