package parsekit

import (
	"errors"
	"fmt"
	"time"
)

// Application error codes.
const (
	ECANCELED    = "canceled"
	ECONFLICT    = "conflict"
	EEXTRACT     = "extract"
	EFETCH       = "fetch"
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	ERATELIMITED = "rate_limited"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
//
// Any non-application error (such as a parse error from a third-party
// library) should be reported as an EINTERNAL error and the human user should
// only see "Internal error" as the message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// RetryAfter is set on ERATELIMITED errors when the limiter knows
	// when capacity returns.
	RetryAfter time.Duration
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("parsekit error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// ErrorRetryAfter returns the retry-after hint of a rate limit error, or zero.
func ErrorRetryAfter(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// RateLimitedf returns an ERATELIMITED error carrying a retry-after hint.
func RateLimitedf(retryAfter time.Duration, format string, args ...interface{}) *Error {
	e := Errorf(ERATELIMITED, format, args...)
	e.RetryAfter = retryAfter
	return e
}
