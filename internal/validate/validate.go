package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a validator that reports json field names and understands the
// money tag for decimal amounts.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	mustRegister(v, "money", ValidateMoney)
	return v
}

// mustRegister panics when tag cannot be registered.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Errorf("failed registering validation tag=%q with error=%w", tag, err))
	}
}

func decimalValue(v reflect.Value) interface{} {
	d, ok := v.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}
	return d.String()
}

// ValidateMoney accepts positive amounts with at most two fractional digits.
func ValidateMoney(fl validator.FieldLevel) bool {
	var d decimal.Decimal
	switch value := fl.Field().Interface().(type) {
	case decimal.Decimal:
		d = value
	case string:
		parsed, err := decimal.NewFromString(value)
		if err != nil {
			return false
		}
		d = parsed
	default:
		return false
	}
	return d.IsPositive() && d.Equal(d.Round(2))
}
