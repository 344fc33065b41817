// Package domain holds the error kinds shared by clients, services and handlers.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks caller mistakes such as an unknown frequency
	// or a malformed date.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDataUnavailable marks a symbol for which the provider has no data.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrMissingCredentials marks a request with no provider API key.
	ErrMissingCredentials = errors.New("missing credentials")
)

// Error carries a message meant for API callers together with the
// sentinel it belongs to, so errors.Is keeps working.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// InvalidArgument returns an ErrInvalidArgument with a human readable reason.
func InvalidArgument(format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// DataUnavailable returns an ErrDataUnavailable with a human readable reason.
func DataUnavailable(format string, args ...interface{}) error {
	return &Error{Kind: ErrDataUnavailable, Message: fmt.Sprintf(format, args...)}
}

// Message returns the caller-facing message of the first *Error in err's
// chain, or err.Error() when there is none.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// StatusError is returned by upstream clients when a provider answers
// with a non-2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Unauthorized reports whether err is a provider 401/403.
func Unauthorized(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == 401 || se.StatusCode == 403
	}
	return false
}
