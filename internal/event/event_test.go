package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promTestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/testutil"
)

type recorder struct {
	events []OrderEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, evt OrderEvent) error {
	r.events = append(r.events, evt)
	return r.err
}

type fakeQueue struct {
	bodies [][]byte
}

func (f *fakeQueue) Publish(_ context.Context, body []byte) error {
	f.bodies = append(f.bodies, body)
	return nil
}

func newEvent(t Type) OrderEvent {
	return OrderEvent{
		Type:              t,
		OrderID:           uuid.New(),
		UserID:            uuid.New(),
		CartID:            uuid.New(),
		TotalAmount:       decimal.RequireFromString("99.95"),
		FulfillmentStatus: "pending",
		OccurredAt:        time.Now().UTC(),
	}
}

func TestMultiPublisher(t *testing.T) {
	failing := &recorder{err: errors.New("boom")}
	ok := &recorder{}
	publisher := MultiPublisher{failing, ok}

	err := publisher.Publish(context.Background(), newEvent(TypeOrderCreated))

	assert.Error(t, err)
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1)
}

func TestFilteredPublisher(t *testing.T) {
	rec := &recorder{}
	publisher := Filtered{Publisher: rec, Types: []Type{TypeOrderPaid}}

	require.NoError(t, publisher.Publish(context.Background(), newEvent(TypeOrderCreated)))
	require.NoError(t, publisher.Publish(context.Background(), newEvent(TypeOrderPaid)))

	assert.Len(t, rec.events, 1)
	assert.Equal(t, TypeOrderPaid, rec.events[0].Type)
}

func TestCountedPublisher(t *testing.T) {
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "failures"}, []string{"sink"})
	failing := Counted{Publisher: &recorder{err: errors.New("down")}, Sink: "redis", Failures: failures}
	working := Counted{Publisher: &recorder{}, Sink: "amqp", Failures: failures}

	assert.Error(t, failing.Publish(context.Background(), newEvent(TypeOrderPaid)))
	assert.NoError(t, working.Publish(context.Background(), newEvent(TypeOrderPaid)))

	assert.Equal(t, float64(1), promTestutil.ToFloat64(failures.WithLabelValues("redis")))
	assert.Equal(t, float64(0), promTestutil.ToFloat64(failures.WithLabelValues("amqp")))
}

func TestTypeForStatus(t *testing.T) {
	assert.Equal(t, TypeOrderShipped, TypeForStatus("shipped"))
	assert.Equal(t, TypeOrderCanceled, TypeForStatus("canceled"))
}

func TestAmqpPublisher(t *testing.T) {
	queue := &fakeQueue{}
	evt := newEvent(TypeOrderPaid)

	err := NewAmqpPublisher(queue).Publish(context.Background(), evt)
	require.NoError(t, err)
	require.Len(t, queue.bodies, 1)

	actual := OrderEvent{}
	require.NoError(t, json.Unmarshal(queue.bodies[0], &actual))
	assert.Equal(t, evt.OrderID, actual.OrderID)
	assert.True(t, evt.TotalAmount.Equal(actual.TotalAmount))
}

func TestRedisPublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	c := context.Background()
	client := testutil.NewRedis(c, t)

	sub := client.Subscribe(c, "orders.events")
	defer sub.Close()
	_, err := sub.Receive(c)
	require.NoError(t, err)

	evt := newEvent(TypeOrderCreated)
	require.NoError(t, NewRedisPublisher(client, "orders.events").Publish(c, evt))

	select {
	case msg := <-sub.Channel():
		actual := OrderEvent{}
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &actual))
		assert.Equal(t, evt.OrderID, actual.OrderID)
		assert.Equal(t, TypeOrderCreated, actual.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
