package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TimeoutError means the request did not settle within the client timeout.
type TimeoutError struct {
	Method   string
	Endpoint string
	After    time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s: request timeout after %s", e.Method, e.Endpoint, e.After)
}

// NetworkError means the server could not be reached at all.
type NetworkError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx answer. Message is the most specific text the
// server gave.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// ValidationError is raised on the client before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// DomainError means the server answered but reported failure
// (success:false) or sent a payload that does not match the schema.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func domainErrorf(format string, args ...any) *DomainError {
	return &DomainError{Message: fmt.Sprintf(format, args...)}
}

// IsUnauthorized reports whether err is an HTTP 401.
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == 401
}

// NewValidationError converts struct-tag validation failures into a
// ValidationError naming the first offending field.
func NewValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	first := verrs[0]
	return &ValidationError{
		Field:   toSnake(first.Field()),
		Message: describeTag(first),
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "eqfield":
		return "must match " + toSnake(fe.Param())
	default:
		return "is invalid"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
			prevLower = false
		} else {
			prevLower = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

// UserMessage renders err for display. Parsing and transport internals never
// reach the user.
func UserMessage(err error) string {
	var (
		timeoutErr    *TimeoutError
		networkErr    *NetworkError
		httpErr       *HTTPError
		validationErr *ValidationError
		domainErr     *DomainError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &timeoutErr):
		return "Request timed out. Please check your connection and try again."
	case errors.As(err, &networkErr):
		return "Network error. Please check your connection and ensure the API is accessible."
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &domainErr):
		return domainErr.Message
	case errors.As(err, &httpErr):
		return httpErr.Message
	default:
		return "An unexpected error occurred"
	}
}
