package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport-level failures: connection refused,
	// timeouts, DNS errors. Match with errors.Is.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks 401/403 responses.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the backend. Detail carries the
// structured error message when the body contained one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}
