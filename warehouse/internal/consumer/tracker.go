package consumer

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/event"
)

// Tracker counts paid orders and the quantity to pick per product. It is
// shared by every worker.
type Tracker struct {
	mu         sync.Mutex
	orders     int64
	quantities map[uuid.UUID]int64
}

func NewTracker() *Tracker {
	return &Tracker{quantities: make(map[uuid.UUID]int64)}
}

func (t *Tracker) Record(items []event.Item) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.orders++
	for _, item := range items {
		t.quantities[item.ProductID] += int64(item.Quantity)
	}
	return t.orders
}

func (t *Tracker) Orders() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.orders
}

func (t *Tracker) Quantity(productId uuid.UUID) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.quantities[productId]
}

func (t *Tracker) MarshalZerologObject(e *zerolog.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	products := zerolog.Dict()
	for productId, quantity := range t.quantities {
		products.Int64(productId.String(), quantity)
	}
	e.Int64("orders", t.orders).Dict("products", products)
}
