package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultCreated  = "created"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

type Metrics struct {
	Checkouts             *prometheus.CounterVec
	StockRejections       *prometheus.CounterVec
	FulfillmentChanges    *prometheus.CounterVec
	EventPublishFailures  *prometheus.CounterVec
	WarehouseOrders       prometheus.Counter
	WarehouseRejectedMsgs prometheus.Counter
}

// New registers every collector on reg. Passing a fresh registry per test
// keeps counters isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Checkouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_total",
			Help:      "Order creation attempts by result.",
		}, []string{"result"}),
		StockRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "stock_rejections_total",
			Help:      "Cart mutations rejected for insufficient stock by operation.",
		}, []string{"operation"}),
		FulfillmentChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "fulfillment_transitions_total",
			Help:      "Order fulfillment status transitions by target status.",
		}, []string{"status"}),
		EventPublishFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "event_publish_failures_total",
			Help:      "Order events that could not be published by sink.",
		}, []string{"sink"}),
		WarehouseOrders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "warehouse",
			Name:      "orders_total",
			Help:      "Paid orders consumed from the warehouse queue.",
		}),
		WarehouseRejectedMsgs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "warehouse",
			Name:      "rejected_messages_total",
			Help:      "Malformed warehouse messages dropped without requeue.",
		}),
	}
}
