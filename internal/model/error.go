package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeStoreUnavailable = "STORE_UNAVAILABLE"
	ErrCodeUpstreamPayment  = "UPSTREAM_PAYMENT_ERROR"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeRateLimited      = "RATE_LIMITED"
)

// DomainError is the error kind surfaced by services. Handlers map Code to an HTTP status.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on code. A target without a message matches every error of that code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

func NewNotFoundError(message string) *DomainError {
	return NewDomainError(ErrCodeNotFound, message)
}

// NewStoreError reports a persistence failure for op.
func NewStoreError(op string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeStoreUnavailable,
		Message: "Failed to " + op,
		Err:     err,
	}
}

// NewUpstreamPaymentError reports a payment provider failure for op.
func NewUpstreamPaymentError(op string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeUpstreamPayment,
		Message: "Payment provider failed to " + op,
		Err:     err,
	}
}

// Kind sentinels, for errors.Is.
var (
	ErrValidation       = &DomainError{Code: ErrCodeValidation}
	ErrNotFound         = &DomainError{Code: ErrCodeNotFound}
	ErrStoreUnavailable = &DomainError{Code: ErrCodeStoreUnavailable}
	ErrUpstreamPayment  = &DomainError{Code: ErrCodeUpstreamPayment}
)

// Common domain errors
var (
	ErrProductNotFound   = NewNotFoundError("Product not found")
	ErrOrderNotFound     = NewNotFoundError("Order not found")
	ErrEmptyCart         = NewValidationError("Cart is empty")
	ErrInvalidAmount     = NewValidationError("Invalid amount")
	ErrInvalidStatus     = NewValidationError("Invalid order status")
	ErrPaymentNotEnabled = NewDomainError(ErrCodeUpstreamPayment, "Payment provider is not configured")
)
