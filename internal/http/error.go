package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

var statusByError = []struct {
	err    error
	status int
}{
	{inErrors.ErrInvalidRequestBody, http.StatusBadRequest},
	{inErrors.ErrInvalidID, http.StatusBadRequest},
	{inErrors.ErrInvalidQuantity, http.StatusBadRequest},
	{inErrors.ErrInvalidCartStatus, http.StatusBadRequest},
	{inErrors.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{inErrors.ErrInvalidFulfillment, http.StatusBadRequest},
	{inErrors.ErrInsufficientStock, http.StatusBadRequest},
	{inErrors.ErrCartEmpty, http.StatusBadRequest},
	{inErrors.ErrPaymentAmountMismatch, http.StatusBadRequest},

	{inErrors.ErrEmptyAuth, http.StatusUnauthorized},
	{inErrors.ErrEmptySubject, http.StatusUnauthorized},
	{inErrors.ErrTokenInvalid, http.StatusUnauthorized},
	{inErrors.ErrForbiddenUser, http.StatusUnauthorized},

	{inErrors.ErrCartNotFound, http.StatusNotFound},
	{inErrors.ErrCartNotActive, http.StatusNotFound},
	{inErrors.ErrCartItemNotFound, http.StatusNotFound},
	{inErrors.ErrProductNotFound, http.StatusNotFound},
	{inErrors.ErrUserNotFound, http.StatusNotFound},
	{inErrors.ErrOrderNotFound, http.StatusNotFound},
	{inErrors.ErrPaymentNotFound, http.StatusNotFound},
	{inErrors.ErrShippingNotFound, http.StatusNotFound},

	{inErrors.ErrCartAlreadyExists, http.StatusConflict},
	{inErrors.ErrCartTerminal, http.StatusConflict},
	{inErrors.ErrOrderNotPending, http.StatusConflict},
	{inErrors.ErrOrderNotShippable, http.StatusConflict},
	{inErrors.ErrInvalidTransition, http.StatusConflict},
	{inErrors.ErrShippingRequired, http.StatusConflict},
	{inErrors.ErrPaymentExists, http.StatusConflict},
	{inErrors.ErrShippingExists, http.StatusConflict},
}

// StatusFromError maps err onto the response taxonomy. Unknown errors are
// internal errors and their text never reaches the client.
func StatusFromError(err error) (int, string) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusBadRequest, "request body is invalid"
	}
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status, e.err.Error()
		}
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

func FieldErrors(err error) []FieldError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	result := make([]FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		message := fmt.Sprintf("failed on %s", fe.Tag())
		if fe.Param() != "" {
			message = fmt.Sprintf("failed on %s=%s", fe.Tag(), fe.Param())
		}
		result = append(result, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: message})
	}
	return result
}

func WriteError(c context.Context, w http.ResponseWriter, err error) {
	statusCode, message := StatusFromError(err)
	body := map[string]interface{}{
		"status":     STATUS_ERROR,
		"statusCode": statusCode,
		"message":    message,
	}
	if fieldErrs := FieldErrors(err); len(fieldErrs) > 0 {
		body["errors"] = fieldErrs
	}
	var bodyErr BodyError
	if errors.As(err, &bodyErr) {
		body["detail"] = bodyErr.Err.Error()
	}
	WriteJsonResponse(c, w, map[string]string{}, body)
}

// BodyError wraps a decoding failure so WriteError reports it as a 400 with
// the decoder message as detail.
type BodyError struct {
	Err error
}

func (e BodyError) Error() string {
	return fmt.Sprintf("%s: %s", inErrors.ErrInvalidRequestBody, e.Err)
}

func (e BodyError) Unwrap() []error {
	return []error{inErrors.ErrInvalidRequestBody, e.Err}
}
