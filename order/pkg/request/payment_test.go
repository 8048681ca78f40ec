package request

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/validate"
)

func validPayment() AttachPayment {
	return AttachPayment{
		Method:        MethodCreditCard,
		Provider:      "stripe",
		TransactionID: "tx-1",
		Amount:        decimal.RequireFromString("99.95"),
		Card: &Card{
			CardHolder:  "Jane Doe",
			CardNumber:  "4242424242424242",
			CVV:         "123",
			ExpiryMonth: 12,
			ExpiryYear:  2030,
		},
	}
}

func TestAttachPaymentMasksCard(t *testing.T) {
	p := validPayment()

	body, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "4242424242424242")
	assert.NotContains(t, string(body), `"123"`)
	assert.Contains(t, string(body), `"***4242"`)

	buf := bytes.Buffer{}
	logger := zerolog.New(&buf)
	logger.Info().Object("payment", p).Msg("payment")
	assert.NotContains(t, buf.String(), "4242424242424242")
	assert.Contains(t, buf.String(), "***4242")

	assert.Equal(t, "4242424242424242", p.Card.CardNumber)
}

func TestAttachPaymentValidation(t *testing.T) {
	v := validate.New()

	testCases := []struct {
		name    string
		mutate  func(p *AttachPayment)
		wantErr bool
	}{
		{name: "valid credit card", mutate: func(p *AttachPayment) {}},
		{
			name:    "credit card without card",
			mutate:  func(p *AttachPayment) { p.Card = nil },
			wantErr: true,
		},
		{
			name:    "card number fails luhn",
			mutate:  func(p *AttachPayment) { p.Card.CardNumber = "4242424242424241" },
			wantErr: true,
		},
		{
			name: "paypal with email",
			mutate: func(p *AttachPayment) {
				p.Method = MethodPaypal
				p.Card = nil
				p.Paypal = &Paypal{Email: "jane@example.com"}
			},
		},
		{
			name: "paypal without email",
			mutate: func(p *AttachPayment) {
				p.Method = MethodPaypal
				p.Card = nil
			},
			wantErr: true,
		},
		{
			name:    "unknown method",
			mutate:  func(p *AttachPayment) { p.Method = "cash" },
			wantErr: true,
		},
		{
			name:    "amount with three decimals",
			mutate:  func(p *AttachPayment) { p.Amount = decimal.RequireFromString("1.005") },
			wantErr: true,
		},
	}

	for _, tC := range testCases {
		t.Run(tC.name, func(t *testing.T) {
			p := validPayment()
			tC.mutate(&p)
			err := v.Struct(p)
			if tC.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
