package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code and message, so wrapped
// copies of a predefined error still satisfy errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// InvalidInput builds an INVALID_INPUT error with a specific message
func InvalidInput(message string) *DomainError {
	return NewDomainError(CodeInvalidInput, message)
}

// Error codes
const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeTokenExpired          = "TOKEN_EXPIRED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeAccountDisabled       = "ACCOUNT_DISABLED"
	CodeSubscriptionExpired   = "SUBSCRIPTION_EXPIRED"
	CodeForbidden             = "FORBIDDEN"
	CodeSelfActionNotAllowed  = "SELF_ACTION_NOT_ALLOWED"
	CodeNotFound              = "NOT_FOUND"
	CodeConflict              = "CONFLICT"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInvalidOTP            = "INVALID_OTP"
	CodeOTPExpired            = "OTP_EXPIRED"
	CodeInvalidOrExpiredGrant = "INVALID_OR_EXPIRED_GRANT"
	CodeTooManyRequests       = "TOO_MANY_REQUESTS"
	CodeInternal              = "INTERNAL_ERROR"
	CodeServiceUnavailable    = "SERVICE_UNAVAILABLE"
)

// Predefined domain errors
var (
	// Authentication errors
	ErrUnauthenticated     = NewDomainError(CodeUnauthenticated, "authentication required")
	ErrInvalidToken        = NewDomainError(CodeInvalidToken, "invalid token")
	ErrTokenExpired        = NewDomainError(CodeTokenExpired, "token has expired")
	ErrInvalidCredentials  = NewDomainError(CodeInvalidCredentials, "invalid credentials")
	ErrAccountDisabled     = NewDomainError(CodeAccountDisabled, "account is disabled")
	ErrSubscriptionExpired = NewDomainError(CodeSubscriptionExpired, "clinic subscription has expired")

	// Authorization errors
	ErrForbidden            = NewDomainError(CodeForbidden, "access denied")
	ErrSelfActionNotAllowed = NewDomainError(CodeSelfActionNotAllowed, "this action cannot be performed on your own account")

	// Resource errors
	ErrAccountNotFound = NewDomainError(CodeNotFound, "account not found")
	ErrAdminNotFound   = NewDomainError(CodeNotFound, "admin not found")
	ErrProfileNotFound = NewDomainError(CodeNotFound, "profile not found")
	ErrEmailExists     = NewDomainError(CodeConflict, "email already registered")
	ErrAadhaarExists   = NewDomainError(CodeConflict, "aadhaar already registered")
	ErrDuplicate       = NewDomainError(CodeConflict, "resource already exists")

	// Validation errors
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "invalid input")

	// OTP / reset errors
	ErrInvalidOTP            = NewDomainError(CodeInvalidOTP, "invalid OTP")
	ErrOTPExpired            = NewDomainError(CodeOTPExpired, "OTP has expired")
	ErrInvalidOrExpiredGrant = NewDomainError(CodeInvalidOrExpiredGrant, "invalid or expired reset token")
	ErrTooManyRequests       = NewDomainError(CodeTooManyRequests, "too many requests, try again later")

	// System errors
	ErrInternal           = NewDomainError(CodeInternal, "internal server error")
	ErrServiceUnavailable = NewDomainError(CodeServiceUnavailable, "service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// HasCode reports whether err is a domain error with the given code
func HasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case CodeInvalidInput, CodeInvalidOTP, CodeOTPExpired, CodeInvalidOrExpiredGrant:
		return http.StatusBadRequest

	// 401 Unauthorized
	case CodeUnauthenticated, CodeInvalidToken, CodeTokenExpired, CodeInvalidCredentials:
		return http.StatusUnauthorized

	// 403 Forbidden
	case CodeAccountDisabled, CodeSubscriptionExpired, CodeForbidden, CodeSelfActionNotAllowed:
		return http.StatusForbidden

	// 404 Not Found
	case CodeNotFound:
		return http.StatusNotFound

	// 409 Conflict
	case CodeConflict:
		return http.StatusConflict

	// 429 Too Many Requests
	case CodeTooManyRequests:
		return http.StatusTooManyRequests

	// 503 Service Unavailable
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCode returns the taxonomy code for err, INTERNAL_ERROR for anything else
func GetErrorCode(err error) string {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code
	}
	return CodeInternal
}

// GetErrorMessage safely extracts a client-facing message. Errors outside the
// taxonomy collapse to the generic internal message.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}
