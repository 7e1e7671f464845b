package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnavailable marks failures where the backend could not serve the
	// request at all: transport errors and 5xx responses.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks 401/403 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError reports a non-2xx backend response. Message carries the
// server-supplied envelope message when one was present.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Unwrap maps status classes to the package sentinels so callers can use
// errors.Is without inspecting status codes.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}
