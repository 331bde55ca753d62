package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnreachable means no HTTP response was received at all.
	ErrUnreachable = errors.New("gateway: api unreachable")
	// ErrInvalidResponse is a 2xx reply with an absent, null or undecodable data payload.
	ErrInvalidResponse = errors.New("gateway: response carried no data")
	// ErrSessionExpired is returned after a failed token refresh; stored credentials are gone.
	ErrSessionExpired = errors.New("gateway: session expired")
)

// Error is a failed call. StatusCode is zero when the API was not reached.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("gateway: %v", e.Err)
	}
	return fmt.Sprintf("gateway: %d %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTransient reports failures that may succeed later without the caller
// changing anything: no response, or a 5xx.
func IsTransient(err error) bool {
	if errors.Is(err, ErrUnreachable) {
		return true
	}
	var ge *Error
	return errors.As(err, &ge) && ge.StatusCode >= http.StatusInternalServerError
}

// IsUnreachable reports whether the request never got an HTTP response.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.StatusCode
	}
	return 0
}

// UserMessage is the text shown to the person at the device for err.
func UserMessage(err error) string {
	var ge *Error
	switch {
	case errors.Is(err, ErrSessionExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrUnreachable):
		return "Network error. Please check your connection."
	case errors.Is(err, ErrInvalidResponse):
		return "Unexpected response from the server."
	case errors.As(err, &ge) && ge.Message != "":
		return ge.Message
	default:
		return "Something went wrong. Please try again."
	}
}
