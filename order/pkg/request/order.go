package request

import (
	"github.com/google/uuid"
)

type CreateOrder struct {
	CartID uuid.UUID `validate:"required" json:"cart_id"`
}

type UpdateFulfillment struct {
	Status string `validate:"required,oneof=pending processing shipped delivered canceled" json:"status"`
}

type AttachShipping struct {
	FullName   string `validate:"required,max=255" json:"full_name"`
	Address    string `validate:"required"         json:"address"`
	City       string `validate:"required,max=255" json:"city"`
	Country    string `validate:"required,max=255" json:"country"`
	PostalCode string `validate:"required,max=32"  json:"postal_code"`
}
