package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

func NumericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:              d.Coefficient(),
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Valid:            true,
	}
}

// DecimalFromNumeric returns zero for NULL, NaN and infinite values.
func DecimalFromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (p Product) Response() productResponse.Product {
	var subcategoryID *uuid.UUID
	if p.SubcategoryID.Valid {
		id := uuid.UUID(p.SubcategoryID.Bytes)
		subcategoryID = &id
	}
	return productResponse.Product{
		ID:            p.ID,
		SubcategoryID: subcategoryID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         DecimalFromNumeric(p.Price),
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt.Time,
		UpdatedAt:     p.UpdatedAt.Time,
	}
}

func (c Cart) Response() cartResponse.Cart {
	return cartResponse.Cart{
		ID:           c.ID,
		UserID:       c.UserID,
		Status:       string(c.Status),
		CheckedOutAt: timePtr(c.CheckedOutAt),
		ArchivedAt:   timePtr(c.ArchivedAt),
		CreatedAt:    c.CreatedAt.Time,
		UpdatedAt:    c.UpdatedAt.Time,
	}
}

func (c CartItem) Response() cartResponse.CartItem {
	return cartResponse.CartItem{
		ID:        c.ID,
		CartID:    c.CartID,
		ProductID: c.ProductID,
		Quantity:  c.Quantity,
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
	}
}

func (f FindCartItemsByCartIdRow) Response() cartResponse.CartItem {
	price := DecimalFromNumeric(f.Price)
	return cartResponse.CartItem{
		ID:          f.ID,
		CartID:      f.CartID,
		ProductID:   f.ProductID,
		ProductName: f.ProductName,
		Price:       &price,
		Quantity:    f.Quantity,
		CreatedAt:   f.CreatedAt.Time,
		UpdatedAt:   f.UpdatedAt.Time,
	}
}

func (o Order) Response() orderResponse.Order {
	return orderResponse.Order{
		ID:                o.ID,
		CartID:            o.CartID,
		UserID:            o.UserID,
		TotalAmount:       DecimalFromNumeric(o.TotalAmount),
		FulfillmentStatus: string(o.FulfillmentStatus),
		CreatedAt:         o.CreatedAt.Time,
		UpdatedAt:         o.UpdatedAt.Time,
	}
}

func (f FindOrderItemsByOrderIdRow) Response() orderResponse.OrderItem {
	return orderResponse.OrderItem{
		ID:              f.ID,
		OrderID:         f.OrderID,
		ProductID:       f.ProductID,
		ProductName:     f.ProductName,
		Quantity:        f.Quantity,
		PriceAtPurchase: DecimalFromNumeric(f.PriceAtPurchase),
		CreatedAt:       f.CreatedAt.Time,
	}
}

func (f FindPaymentInfoByOrderIdRow) Response() orderResponse.Payment {
	payment := orderResponse.Payment{
		ID:            f.ID,
		OrderID:       f.OrderID,
		Method:        string(f.Method),
		Provider:      f.Provider,
		TransactionID: f.TransactionID,
		Amount:        DecimalFromNumeric(f.Amount),
		CreatedAt:     f.CreatedAt.Time,
	}
	if f.CardLast4.Valid {
		payment.Card = &orderResponse.Card{
			CardHolder:  f.CardHolder.String,
			CardLast4:   f.CardLast4.String,
			ExpiryMonth: f.ExpiryMonth.Int16,
			ExpiryYear:  f.ExpiryYear.Int16,
		}
	}
	if f.PaypalEmail.Valid {
		payment.Paypal = &orderResponse.Paypal{Email: f.PaypalEmail.String}
	}
	return payment
}

func (s ShippingInfo) Response() orderResponse.Shipping {
	return orderResponse.Shipping{
		ID:             s.ID,
		OrderID:        s.OrderID,
		FullName:       s.FullName,
		Address:        s.Address,
		City:           s.City,
		Country:        s.Country,
		PostalCode:     s.PostalCode,
		TrackingNumber: s.TrackingNumber,
		CreatedAt:      s.CreatedAt.Time,
	}
}
