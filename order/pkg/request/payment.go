package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	MethodCreditCard = "credit_card"
	MethodPaypal     = "paypal"
)

type AttachPayment struct {
	Method        string          `validate:"required,oneof=credit_card paypal"  json:"method"`
	Provider      string          `validate:"required,max=255"                   json:"provider"`
	TransactionID string          `validate:"required,max=255"                   json:"transaction_id"`
	Amount        decimal.Decimal `validate:"required,money"                     json:"amount"`
	Card          *Card           `validate:"required_if=Method credit_card"     json:"card,omitempty"`
	Paypal        *Paypal         `validate:"required_if=Method paypal"          json:"paypal,omitempty"`
}

type Card struct {
	CardHolder  string `validate:"required,max=255"               json:"card_holder"`
	CardNumber  string `validate:"required,credit_card"           json:"card_number"`
	CVV         string `validate:"required,numeric,min=3,max=4"   json:"cvv"`
	ExpiryMonth int16  `validate:"required,min=1,max=12"          json:"expiry_month"`
	ExpiryYear  int16  `validate:"required,min=2000"              json:"expiry_year"`
}

type Paypal struct {
	Email string `validate:"required,email" json:"email"`
}

// Last4 returns the last four digits of the card number.
func (c Card) Last4() string {
	if len(c.CardNumber) < 4 {
		return c.CardNumber
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}

func (c Card) MarshalZerologObject(e *zerolog.Event) {
	e.Str("card_holder", c.CardHolder).
		Str("card_number", "***"+c.Last4()).
		Str("cvv", "***").
		Int16("expiry_month", c.ExpiryMonth).
		Int16("expiry_year", c.ExpiryYear)
}

func (c Card) MarshalJSON() ([]byte, error) {
	c.CardNumber = "***" + c.Last4()
	c.CVV = "***"
	type C Card
	return json.Marshal(C(c))
}

func (p AttachPayment) MarshalZerologObject(e *zerolog.Event) {
	e.Str("method", p.Method).
		Str("provider", p.Provider).
		Str("transaction_id", p.TransactionID).
		Str("amount", p.Amount.String())
	if p.Card != nil {
		e.Object("card", p.Card)
	}
	if p.Paypal != nil {
		e.Str("paypal_email", p.Paypal.Email)
	}
}
