package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

func TestParse(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "canceled"} {
		status, err := Parse(s)
		assert.NoError(t, err)
		assert.Equal(t, s, status.String())
	}

	_, err := Parse("Pending")
	assert.ErrorIs(t, err, inErrors.ErrInvalidFulfillment)
	_, err = Parse("")
	assert.ErrorIs(t, err, inErrors.ErrInvalidFulfillment)
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	all := []Status{Pending, Processing, Shipped, Delivered, Canceled}
	for _, from := range all {
		if !from.IsTerminal() {
			continue
		}
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to), "%s to %s", from, to)
		}
	}
	assert.True(t, Delivered.IsTerminal())
	assert.True(t, Canceled.IsTerminal())
	assert.False(t, Shipped.IsTerminal())
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name        string
		current     Status
		next        Status
		viaPayment  bool
		expectedErr error
	}{
		{name: "given payment on pending should move to processing", current: Pending, next: Processing, viaPayment: true},
		{name: "given manual processing should reject", current: Pending, next: Processing, expectedErr: inErrors.ErrInvalidTransition},
		{name: "given payment on processing should reject", current: Processing, next: Processing, viaPayment: true, expectedErr: inErrors.ErrInvalidTransition},
		{name: "given processing should ship", current: Processing, next: Shipped},
		{name: "given processing should cancel", current: Processing, next: Canceled},
		{name: "given shipped should deliver", current: Shipped, next: Delivered},
		{name: "given shipped should not cancel", current: Shipped, next: Canceled, expectedErr: inErrors.ErrInvalidTransition},
		{name: "given delivered should not go back", current: Delivered, next: Shipped, expectedErr: inErrors.ErrInvalidTransition},
		{name: "given same status should reject", current: Shipped, next: Shipped, expectedErr: inErrors.ErrInvalidTransition},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Transition(test.current, test.next, test.viaPayment)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
