package consumer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/event"
	"github.com/Alturino/storefront/internal/metrics"
)

type acknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *acknowledger) Ack(uint64, bool) error {
	a.acked++
	return nil
}

func (a *acknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *acknowledger) Reject(_ uint64, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, body interface{}) amqp.Delivery {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, Body: raw}
}

func TestWorkerHandle(t *testing.T) {
	productId := uuid.New()
	paid := event.OrderEvent{
		Type:    event.TypeOrderPaid,
		OrderID: uuid.New(),
		Items: []event.Item{
			{ProductID: productId, Quantity: 3, PriceAtPurchase: decimal.RequireFromString("1.50")},
		},
	}

	tests := []struct {
		name           string
		body           interface{}
		expectedAcked  int
		expectedNacked int
		expectedOrders int64
		expectErr      bool
	}{
		{
			name:           "given paid order should record and ack",
			body:           paid,
			expectedAcked:  1,
			expectedOrders: 1,
		},
		{
			name:           "given invalid json should nack without requeue",
			body:           []byte("{not json"),
			expectedNacked: 1,
			expectErr:      true,
		},
		{
			name:           "given other event type should nack without requeue",
			body:           event.OrderEvent{Type: event.TypeOrderCreated, OrderID: uuid.New()},
			expectedNacked: 1,
			expectErr:      true,
		},
		{
			name:           "given missing order id should nack without requeue",
			body:           event.OrderEvent{Type: event.TypeOrderPaid},
			expectedNacked: 1,
			expectErr:      true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())
			w := &Worker{id: 1, tracker: NewTracker(), metrics: m}
			ack := &acknowledger{}

			err := w.Handle(context.Background(), delivery(t, ack, test.body))
			if test.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.expectedAcked, ack.acked)
			assert.Equal(t, test.expectedNacked, ack.nacked)
			assert.False(t, ack.requeue)
			assert.Equal(t, test.expectedOrders, w.tracker.Orders())
			assert.Equal(t, float64(test.expectedOrders), testutil.ToFloat64(m.WarehouseOrders))
			assert.Equal(t, float64(test.expectedNacked), testutil.ToFloat64(m.WarehouseRejectedMsgs))
		})
	}
}

func TestTrackerConcurrentRecord(t *testing.T) {
	tracker := NewTracker()
	productId := uuid.New()

	const workers = 16
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Record([]event.Item{{ProductID: productId, Quantity: 2}})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(workers), tracker.Orders())
	assert.Equal(t, int64(workers*2), tracker.Quantity(productId))
}
