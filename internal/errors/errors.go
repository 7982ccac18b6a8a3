// Package errors provides custom error types for the Financeiro API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	"errors"
	"net/http"
)

// FieldMessage describes a validation failure attached to a single field.
type FieldMessage struct {
	FieldName string `json:"fieldName"`
	Message   string `json:"message"`
}

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Fields     []FieldMessage `json:"fields,omitempty"`
	StatusCode int            `json:"-"`
	Internal   error          `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target carries the same error code, so a wrapped copy
// still matches its sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Fields:     sentinel.Fields,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Fields:     sentinel.Fields,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithFields creates a new AppError carrying the given field messages.
func WithFields(sentinel *AppError, fields ...FieldMessage) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Fields:     fields,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized         = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials   = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidClient        = &AppError{Code: "INVALID_CLIENT", Message: "Invalid client credentials", StatusCode: http.StatusUnauthorized}
	ErrUnsupportedGrantType = &AppError{Code: "UNSUPPORTED_GRANT_TYPE", Message: "Unsupported grant type", StatusCode: http.StatusBadRequest}
	ErrForbidden            = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrRateLimited          = &AppError{Code: "RATE_LIMITED", Message: "Too many requests", StatusCode: http.StatusTooManyRequests}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrDatabase       = &AppError{Code: "DATABASE_ERROR", Message: "Database integrity violation", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{
		Code:       "DUPLICATE_EMAIL",
		Message:    "Validation error",
		Fields:     []FieldMessage{{FieldName: "email", Message: "Email already exists"}},
		StatusCode: http.StatusUnprocessableEntity,
	}
)

// Role errors.
var (
	ErrRoleNotFound = &AppError{Code: "ROLE_NOT_FOUND", Message: "Role not found", StatusCode: http.StatusNotFound}
)

// Member errors.
var (
	ErrMemberNotFound = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Member not found", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Transaction type must be INCOME or EXPENSE", StatusCode: http.StatusBadRequest}
	ErrFuelDataNotAllowed     = &AppError{Code: "FUEL_DATA_NOT_ALLOWED", Message: "Fuel data is only allowed on EXPENSE transactions", StatusCode: http.StatusBadRequest}
)

// Password recovery errors.
var (
	ErrEmailNotFound        = &AppError{Code: "EMAIL_NOT_FOUND", Message: "Email not found", StatusCode: http.StatusNotFound}
	ErrRecoverTokenNotFound = &AppError{Code: "RECOVER_TOKEN_NOT_FOUND", Message: "Invalid token", StatusCode: http.StatusNotFound}
)
