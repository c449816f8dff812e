package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// Visited countries
	ErrCodeCountryNotFound ErrorCode = "COUNTRY_NOT_FOUND"
	ErrCodeDuplicateVisit  ErrorCode = "DUPLICATE_VISIT"

	// Input
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Database & Storage
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"

	// Internal Errors
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
	ErrCodeServiceUnavail ErrorCode = "SERVICE_UNAVAILABLE"
)

// AppError represents a structured application error
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"-"`
	Operation  string         `json:"-"`
	Internal   error          `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

// WithDetails adds contextual details to the error
func (e *AppError) WithDetails(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithInternal wraps an internal error
func (e *AppError) WithInternal(err error) *AppError {
	e.Internal = err
	return e
}

// WithOperation records which operation failed
func (e *AppError) WithOperation(op string) *AppError {
	e.Operation = op
	return e
}

// LogFields flattens the error for structured logging
func (e *AppError) LogFields() map[string]any {
	fields := map[string]any{
		"code":   string(e.Code),
		"status": e.StatusCode,
	}
	if e.Operation != "" {
		fields["operation"] = e.Operation
	}
	if e.Internal != nil {
		fields["internal"] = e.Internal.Error()
	}
	for k, v := range e.Details {
		fields[k] = v
	}
	return fields
}

func New(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// HasCode checks whether err is an AppError carrying code
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FromError converts a standard error to AppError if possible
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return New(ErrCodeNotFound, "Page not found", fiber.StatusNotFound)
		case fiber.StatusBadRequest:
			return NewBadRequest(fiberErr.Message)
		default:
			return New(ErrCodeInternal, fiberErr.Message, fiberErr.Code)
		}
	}

	return NewInternalError("").WithInternal(err)
}
