package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Status       string     `json:"status"`
	CartItems    []CartItem `json:"cart_items,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	ArchivedAt   *time.Time `json:"archived_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CartItem carries the product name and its current price only when read
// through the cart item listing.
type CartItem struct {
	ID          uuid.UUID        `json:"id"`
	CartID      uuid.UUID        `json:"cart_id"`
	ProductID   uuid.UUID        `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Quantity    int32            `json:"quantity"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
