package request

import (
	"github.com/google/uuid"
)

type UpdateCart struct {
	Status string `validate:"required,oneof=active archived checked_out" json:"status"`
}

type InsertCartItem struct {
	ProductID uuid.UUID `validate:"required" json:"product_id"`
	Quantity  int32     `json:"quantity"`
}

type UpdateCartItem struct {
	Quantity int32 `json:"quantity"`
}
