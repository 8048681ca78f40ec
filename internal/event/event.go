package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeOrderCreated    Type = "order.created"
	TypeOrderPaid       Type = "order.paid"
	TypeOrderShipped    Type = "order.shipped"
	TypeOrderDelivered  Type = "order.delivered"
	TypeOrderCanceled   Type = "order.canceled"
	TypeOrderProcessing Type = "order.processing"
)

// TypeForStatus names the event emitted when an order enters status.
func TypeForStatus(status string) Type {
	return Type("order." + status)
}

type Item struct {
	ProductID       uuid.UUID       `json:"product_id"`
	Quantity        int32           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type OrderEvent struct {
	Type              Type            `json:"type"`
	OrderID           uuid.UUID       `json:"order_id"`
	UserID            uuid.UUID       `json:"user_id"`
	CartID            uuid.UUID       `json:"cart_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	Items             []Item          `json:"items,omitempty"`
	OccurredAt        time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(c context.Context, evt OrderEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

// MultiPublisher hands every event to all publishers and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(c context.Context, evt OrderEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(c, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Filtered only forwards events whose type is listed.
type Filtered struct {
	Publisher Publisher
	Types     []Type
}

func (f Filtered) Publish(c context.Context, evt OrderEvent) error {
	for _, t := range f.Types {
		if t == evt.Type {
			return f.Publisher.Publish(c, evt)
		}
	}
	return nil
}
