package validate

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type payment struct {
	Amount     decimal.Decimal `json:"amount"      validate:"money"`
	CardNumber string          `json:"card_number" validate:"omitempty,credit_card"`
}

func TestValidateMoney(t *testing.T) {
	tests := []struct {
		name          string
		input         payment
		expectedField string
	}{
		{
			name:  "given two decimal places should pass",
			input: payment{Amount: decimal.RequireFromString("99.95")},
		},
		{
			name:  "given trailing zeros should pass",
			input: payment{Amount: decimal.RequireFromString("19.990")},
		},
		{
			name:          "given three decimal places should fail",
			input:         payment{Amount: decimal.RequireFromString("1.999")},
			expectedField: "amount",
		},
		{
			name:          "given zero should fail",
			input:         payment{Amount: decimal.Zero},
			expectedField: "amount",
		},
		{
			name:          "given negative should fail",
			input:         payment{Amount: decimal.NewFromInt(-1)},
			expectedField: "amount",
		},
		{
			name: "given valid card number should pass",
			input: payment{
				Amount:     decimal.NewFromInt(1),
				CardNumber: "4111111111111111",
			},
		},
		{
			name: "given invalid card number should report json field name",
			input: payment{
				Amount:     decimal.NewFromInt(1),
				CardNumber: "4111111111111112",
			},
			expectedField: "card_number",
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.expectedField == "" {
				assert.NoError(t, err)
				return
			}
			var fieldErrs validator.ValidationErrors
			if assert.True(t, errors.As(err, &fieldErrs)) {
				assert.Equal(t, tt.expectedField, fieldErrs[0].Field())
			}
		})
	}
}

func TestMustRegister(t *testing.T) {
	assert.NotPanics(t, func() { New() })
	assert.Panics(t, func() { mustRegister(validator.New(), "", ValidateMoney) })
}
