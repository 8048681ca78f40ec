package errors

import (
	"errors"
)

var (
	ErrEmptyAuth     = errors.New("missing authorization")
	ErrEmptySubject  = errors.New("missing subject")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrForbiddenUser = errors.New("user does not match token subject")
)

var (
	ErrInvalidRequestBody   = errors.New("request body is invalid")
	ErrInvalidID            = errors.New("id is not a valid uuid")
	ErrInvalidQuantity      = errors.New("quantity must be greater than 0")
	ErrInvalidCartStatus    = errors.New("cart status can only be changed to archived")
	ErrInvalidPaymentMethod = errors.New("payment method is invalid")
	ErrInvalidFulfillment   = errors.New("fulfillment status is invalid")
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartNotActive     = errors.New("cart is not active")
	ErrCartAlreadyExists = errors.New("user already has an active cart")
	ErrCartEmpty         = errors.New("cart is empty")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrCartTerminal      = errors.New("cart is already checked out or archived")
)

var ErrUserNotFound = errors.New("user not found")

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderNotPending       = errors.New("order is not pending")
	ErrOrderNotShippable     = errors.New("order can no longer receive shipping info")
	ErrInvalidTransition     = errors.New("fulfillment transition is not allowed")
	ErrShippingRequired      = errors.New("shipping info is required before shipping")
	ErrPaymentAmountMismatch = errors.New("payment amount does not match order total")
	ErrPaymentExists         = errors.New("payment info already exists")
	ErrPaymentNotFound       = errors.New("payment info not found")
	ErrShippingExists        = errors.New("shipping info already exists")
	ErrShippingNotFound      = errors.New("shipping info not found")
)
