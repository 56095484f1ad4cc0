package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeForbidden        ErrorCode = "forbidden"
	ErrCodeRuleViolation    ErrorCode = "rule_violation"
	ErrCodeInsufficient     ErrorCode = "insufficient_value"
	ErrCodeRateLimited      ErrorCode = "rate_limited"

	// Server errors (5xx)
	ErrCodeInternalError       ErrorCode = "internal_error"
	ErrCodeDatabaseError       ErrorCode = "database_error"
	ErrCodeServiceError        ErrorCode = "service_error"
	ErrCodeContractUnavailable ErrorCode = "contract_unavailable"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// HTTPStatus returns the HTTP status code matching the error code
func (e *APIError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeBadRequest, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeRuleViolation, ErrCodeInsufficient:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeServiceError:
		return http.StatusBadGateway
	case ErrCodeContractUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewForbiddenError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewRuleViolationError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeRuleViolation,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInsufficientValueError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInsufficient,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewRateLimitedError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeRateLimited,
		Message: "Too many requests",
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewDatabaseError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewServiceError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeServiceError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewContractUnavailableError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeContractUnavailable,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

// FromDomainError converts an error returned by the composer into an APIError.
// An error that already is an APIError is returned as is.
func FromDomainError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch domain.ErrorKind(err) {
	case "malformed_record":
		return NewBadRequestError("Malformed request", err.Error())
	case "rule_violation":
		if invariant, ok := domain.ViolatedInvariant(err); ok {
			return NewRuleViolationError("Rule violation: "+string(invariant), err.Error())
		}
		return NewRuleViolationError("Rule violation", err.Error())
	case "insufficient_value":
		return NewInsufficientValueError("Insufficient value", err.Error())
	case "resource_not_found":
		return NewNotFoundError("Resource not found", err.Error())
	case "contract_unavailable":
		return NewContractUnavailableError("Contract unavailable", err.Error())
	case "external_service_failure":
		return NewServiceError("Ledger service failure", err.Error())
	default:
		return NewInternalError("Internal error", err.Error())
	}
}
