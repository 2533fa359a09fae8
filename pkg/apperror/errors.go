package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies a class of application error independently of its message,
// so callers can match with errors.Is even when the message carries detail
// such as a product name.
type Kind string

const (
	KindOutOfStock          Kind = "out_of_stock"
	KindInsufficientStock   Kind = "insufficient_stock"
	KindInsufficientPayment Kind = "insufficient_payment"
	KindEmptyCart           Kind = "empty_cart"
	KindInvalidDiscount     Kind = "invalid_discount"
	KindCheckoutInProgress  Kind = "checkout_in_progress"
	KindPartialCommit       Kind = "partial_commit"
	KindNotFound            Kind = "not_found"
	KindBadRequest          Kind = "bad_request"
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindConflict            Kind = "conflict"
	KindInternal            Kind = "internal"
)

// AppError represents an application error with HTTP status code.
// Support marks errors that indicate system inconsistency rather than bad
// input; clients should render those as "contact support", not "fix input".
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Support bool         `json:"support,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches any AppError of the same kind, so a detailed error like
// "Insufficient stock for Milk 1L" matches the ErrInsufficientStock sentinel.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Kind == appErr.Kind
}

// Common errors
var (
	ErrOutOfStock          = &AppError{Code: http.StatusConflict, Kind: KindOutOfStock, Message: "Product is out of stock"}
	ErrInsufficientStock   = &AppError{Code: http.StatusConflict, Kind: KindInsufficientStock, Message: "Insufficient stock"}
	ErrInsufficientPayment = &AppError{Code: http.StatusBadRequest, Kind: KindInsufficientPayment, Message: "Tendered amount does not cover the total"}
	ErrEmptyCart           = &AppError{Code: http.StatusBadRequest, Kind: KindEmptyCart, Message: "Cart is empty"}
	ErrInvalidDiscount     = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInvalidDiscount, Message: "Discount exceeds allowed bounds"}
	ErrCheckoutInProgress  = &AppError{Code: http.StatusConflict, Kind: KindCheckoutInProgress, Message: "A checkout is already in progress for this register"}
	ErrNotFound            = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized        = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden           = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest          = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrConflict            = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrInternalServer      = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrInvalidCredentials  = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid email or password"}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: resource + " not found"}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: message}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: message}
}

// NewOutOfStockError reports a product that cannot be sold at all.
func NewOutOfStockError(product string) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: KindOutOfStock, Message: fmt.Sprintf("%s is out of stock", product)}
}

// NewInsufficientStockError reports a quantity that exceeds available stock.
func NewInsufficientStockError(product string, available int) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s: only %d available", product, available),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindBadRequest,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// PartialCommitError reports a checkout whose invoice was persisted but a
// later step failed, leaving external state inconsistent. It must reach the
// operator verbatim; retrying automatically risks duplicate stock decrements.
type PartialCommitError struct {
	Step      string // "stock" or "points"
	InvoiceNo string
	Err       error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("partial commit: invoice %s persisted but %s update failed: %v", e.InvoiceNo, e.Step, e.Err)
}

func (e *PartialCommitError) Unwrap() error {
	return e.Err
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var partial *PartialCommitError
	if errors.As(err, &partial) {
		return &AppError{
			Code:    http.StatusInternalServerError,
			Kind:    KindPartialCommit,
			Message: "Sale was recorded but inventory or loyalty update failed. Contact support with invoice " + partial.InvoiceNo,
			Support: true,
		}
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: err.Error(),
	}
}
