package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Checkouts.WithLabelValues(ResultCreated).Inc()
	m.Checkouts.WithLabelValues(ResultRejected).Add(2)
	m.StockRejections.WithLabelValues("add").Inc()
	m.WarehouseOrders.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Checkouts.WithLabelValues(ResultCreated)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Checkouts.WithLabelValues(ResultRejected)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.StockRejections.WithLabelValues("add")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WarehouseOrders))

	count, err := testutil.GatherAndCount(reg, "storefront_checkout_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
