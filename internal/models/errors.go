// Package models contains data structures for the application's domain records.
package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the data-access layer. Handlers map these to HTTP
// statuses; services raise them before or after remote calls per the
// propagation policy (validation first, remote failures re-classified).
const (
	CodeInvalidFormat     = "INVALID_FORMAT"
	CodeWeakCredential    = "WEAK_CREDENTIAL"
	CodeAlreadyRegistered = "ALREADY_REGISTERED"
	CodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeNoPendingSignup   = "NO_PENDING_SIGNUP"
	CodeRateLimited       = "RATE_LIMITED"
	CodeConflict          = "CONFLICT"
	CodeValidation        = "VALIDATION_ERROR"
	CodeInternal          = "INTERNAL_ERROR"
	CodeUnknown           = "UNKNOWN"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors

func NewInvalidFormatError(message string) *AppError {
	return &AppError{Code: CodeInvalidFormat, Message: message}
}

func NewWeakCredentialError(message string) *AppError {
	return &AppError{Code: CodeWeakCredential, Message: message}
}

func NewAlreadyRegisteredError(email string) *AppError {
	return &AppError{
		Code:    CodeAlreadyRegistered,
		Message: fmt.Sprintf("Email %s is already registered", email),
	}
}

func NewAccountNotFoundError() *AppError {
	return &AppError{
		Code:    CodeAccountNotFound,
		Message: "Account not found. Please sign up first.",
	}
}

func NewUnauthenticatedError() *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: "User not authenticated"}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewNoPendingSignupError() *AppError {
	return &AppError{Code: CodeNoPendingSignup, Message: "No pending signup found"}
}

func NewRateLimitedError() *AppError {
	return &AppError{
		Code:    CodeRateLimited,
		Message: "Too many failed attempts. Please try again later.",
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// NewUnknownError wraps an unclassified provider or store failure, keeping
// the original message visible to the caller.
func NewUnknownError(err error) *AppError {
	return &AppError{Code: CodeUnknown, Message: err.Error(), Err: err}
}

// StatusForError returns the HTTP status for an application error code.
func StatusForError(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeInvalidFormat, CodeWeakCredential, CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthenticated, CodeAccountNotFound:
		return fiber.StatusUnauthorized
	case CodeUnauthorized:
		return fiber.StatusForbidden
	case CodeNotFound, CodeNoPendingSignup:
		return fiber.StatusNotFound
	case CodeAlreadyRegistered, CodeConflict:
		return fiber.StatusConflict
	case CodeRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
