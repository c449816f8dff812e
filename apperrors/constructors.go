package apperrors

import (
	"github.com/gofiber/fiber/v2"
)

// User-visible messages for the add-country form. The duplicate text is
// what users have always seen and must not change.
const (
	MsgCountryNotFound = "Country name does not exist, try again."
	MsgDuplicateVisit  = "Country has already been added, try again."
	MsgStorageFailure  = "Could not save the country right now, try again."
	MsgUserNotSaved    = "Could not add the family member right now, try again."
)

func NewCountryNotFound(input string) *AppError {
	return New(ErrCodeCountryNotFound, MsgCountryNotFound, fiber.StatusNotFound).
		WithOperation("country_lookup").
		WithDetails("input", truncateString(input, 60))
}

func NewDuplicateVisit(countryCode string, userID int64, err error) *AppError {
	return New(ErrCodeDuplicateVisit, MsgDuplicateVisit, fiber.StatusConflict).
		WithOperation("add_visited_country").
		WithDetails("country_code", countryCode).
		WithDetails("user_id", userID).
		WithInternal(err)
}

// NewDatabaseError is used for any storage failure that is not a known constraint
func NewDatabaseError(operation string, err error) *AppError {
	return New(ErrCodeDatabaseError, "Database operation failed", fiber.StatusInternalServerError).
		WithOperation(operation).
		WithInternal(err)
}

// NewStorageFailure is the add-country flavour of a database error, shown inline on the form
func NewStorageFailure(operation string, err error) *AppError {
	return New(ErrCodeDatabaseError, MsgStorageFailure, fiber.StatusServiceUnavailable).
		WithOperation(operation).
		WithInternal(err)
}

// NewCircuitBreakerError marks a call refused because the breaker for service is open
// NewUserSaveFailure is the new-user form flavour, shown inline on that form
func NewUserSaveFailure(err error) *AppError {
	return New(ErrCodeDatabaseError, MsgUserNotSaved, fiber.StatusServiceUnavailable).
		WithOperation("create_user").
		WithInternal(err)
}

func NewCircuitBreakerError(service string, err error) *AppError {
	return New(ErrCodeServiceUnavail, "Service temporarily unavailable", fiber.StatusServiceUnavailable).
		WithOperation("circuit_breaker_check").
		WithDetails("service", service).
		WithInternal(err)
}

func NewBadRequest(message string) *AppError {
	if message == "" {
		message = "Bad request"
	}
	return New(ErrCodeInvalidInput, message, fiber.StatusBadRequest)
}

func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An internal error occurred"
	}
	return New(ErrCodeInternal, message, fiber.StatusInternalServerError)
}

// truncateString caps s at maxLen runes
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
