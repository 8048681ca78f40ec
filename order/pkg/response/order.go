package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID                uuid.UUID       `json:"id"`
	CartID            uuid.UUID       `json:"cart_id"`
	UserID            uuid.UUID       `json:"user_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	OrderItems        []OrderItem     `json:"order_items,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	Quantity        int32           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
	CreatedAt       time.Time       `json:"created_at"`
}

type Payment struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	Method        string          `json:"method"`
	Provider      string          `json:"provider"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Card          *Card           `json:"card,omitempty"`
	Paypal        *Paypal         `json:"paypal,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Card struct {
	CardHolder  string `json:"card_holder"`
	CardLast4   string `json:"card_last4"`
	ExpiryMonth int16  `json:"expiry_month"`
	ExpiryYear  int16  `json:"expiry_year"`
}

type Paypal struct {
	Email string `json:"email"`
}

type Shipping struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	FullName       string    `json:"full_name"`
	Address        string    `json:"address"`
	City           string    `json:"city"`
	Country        string    `json:"country"`
	PostalCode     string    `json:"postal_code"`
	TrackingNumber string    `json:"tracking_number"`
	CreatedAt      time.Time `json:"created_at"`
}
