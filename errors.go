package parley

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrEmptyInput is returned when a conversation has no messages.
var ErrEmptyInput = errors.New("empty input")

// ErrNoChoices is returned when a provider responds without any candidate.
var ErrNoChoices = errors.New("no choices in response")

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the request may succeed if repeated.
	// Rate limits, timeouts and server overload fall here.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates repeating the request cannot help,
	// such as a bad API key or an unknown model.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the request itself was rejected and must be changed.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that carries handling metadata.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool
	StatusCode() int           // HTTP status code, 0 if not applicable
	RetryAfter() time.Duration // server-suggested delay, 0 if not available
}

// Error is the CategorizedError produced by provider adapters.
type Error struct {
	Msg        string
	Cat        ErrorCategory
	Code       int
	RetryDelay time.Duration
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Category returns the error category.
func (e *Error) Category() ErrorCategory { return e.Cat }

// Retryable reports whether the error is transient.
func (e *Error) Retryable() bool { return e.Cat == ErrorTransient }

// StatusCode returns the HTTP status code, or 0.
func (e *Error) StatusCode() int { return e.Code }

// RetryAfter returns the server-suggested retry delay, or 0.
func (e *Error) RetryAfter() time.Duration { return e.RetryDelay }

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, Cause: cause}
}

// NewTransientErrorWithRetry creates a transient error with a suggested retry delay.
func NewTransientErrorWithRetry(msg string, statusCode int, retryAfter time.Duration, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorTransient, Code: statusCode, RetryDelay: retryAfter, Cause: cause}
}

// NewPermanentError creates an error that should not be retried.
func NewPermanentError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorPermanent, Code: statusCode, Cause: cause}
}

// NewUserInputError creates an error for a request the provider rejected as invalid.
func NewUserInputError(msg string, statusCode int, cause error) *Error {
	return &Error{Msg: msg, Cat: ErrorUserInput, Code: statusCode, Cause: cause}
}

// CategorizeStatus builds an Error for an HTTP status code returned by a provider.
// The provider name prefixes the message.
func CategorizeStatus(provider string, statusCode int, retryAfter time.Duration, cause error) *Error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewTransientErrorWithRetry(provider+": rate limit exceeded", statusCode, retryAfter, cause)
	case statusCode >= 500:
		return NewTransientErrorWithRetry(provider+": server error", statusCode, retryAfter, cause)
	case statusCode == http.StatusUnauthorized:
		return NewPermanentError(provider+": invalid API key", statusCode, cause)
	case statusCode == http.StatusForbidden:
		return NewPermanentError(provider+": permission denied", statusCode, cause)
	case statusCode == http.StatusNotFound:
		return NewPermanentError(provider+": model or resource not found", statusCode, cause)
	case statusCode >= 400:
		return NewUserInputError(provider+": invalid request", statusCode, cause)
	default:
		return NewTransientError(provider+": request failed", statusCode, cause)
	}
}

func categoryOf(err error) (ErrorCategory, bool) {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category(), true
	}
	return "", false
}

// IsTransient reports whether err, or any error it wraps, is categorized as transient.
func IsTransient(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorTransient
}

// IsPermanent reports whether err, or any error it wraps, is categorized as permanent.
func IsPermanent(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorPermanent
}

// IsUserInput reports whether err, or any error it wraps, is categorized as a user input error.
func IsUserInput(err error) bool {
	cat, ok := categoryOf(err)
	return ok && cat == ErrorUserInput
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}

// Failure is the coarse signal a model call reports when it does not succeed.
type Failure string

const (
	FailureNone           Failure = ""
	FailureRateLimited    Failure = "rate_limited"
	FailureTransport      Failure = "transport_error"
	FailureInvalidRequest Failure = "invalid_request"
)

// FailureOf maps an error from a model call onto a Failure signal.
// Uncategorized errors count as transport failures.
func FailureOf(err error) Failure {
	if err == nil {
		return FailureNone
	}
	if StatusCodeOf(err) == http.StatusTooManyRequests {
		return FailureRateLimited
	}
	cat, ok := categoryOf(err)
	if ok && cat != ErrorTransient {
		return FailureInvalidRequest
	}
	return FailureTransport
}

// ImageError represents a failure to load an image for a multimodal message.
type ImageError struct {
	Op     string // "open", "fetch", "decode" or "encode"
	Source string // file path or URL
	Err    error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image %s %s: %v", e.Op, e.Source, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}
