package fulfillment

import (
	"fmt"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

type Status string

const (
	Pending    Status = "pending"
	Processing Status = "processing"
	Shipped    Status = "shipped"
	Delivered  Status = "delivered"
	Canceled   Status = "canceled"
)

var transitions = map[Status][]Status{
	Pending:    {Processing},
	Processing: {Shipped, Canceled},
	Shipped:    {Delivered},
}

// Parse accepts only the five known statuses.
func Parse(s string) (Status, error) {
	switch status := Status(s); status {
	case Pending, Processing, Shipped, Delivered, Canceled:
		return status, nil
	default:
		return "", fmt.Errorf("status=%s with error=%w", s, inErrors.ErrInvalidFulfillment)
	}
}

func (s Status) String() string {
	return string(s)
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == Canceled
}

// AllowsShipping reports whether shipping info may still be attached.
func (s Status) AllowsShipping() bool {
	return s == Pending || s == Processing
}

// Transition validates a move from current to next. Moving into processing
// is reserved for payment capture and is rejected here unless viaPayment.
func Transition(current Status, next Status, viaPayment bool) error {
	if next == Processing && !viaPayment {
		return fmt.Errorf("transition %s to %s outside payment with error=%w", current, next, inErrors.ErrInvalidTransition)
	}
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("transition %s to %s with error=%w", current, next, inErrors.ErrInvalidTransition)
	}
	return nil
}
