package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx answer that is neither an auth failure nor an
// availability problem.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Message returns the user-facing text carried by err, or "" when err does
// not come from the API.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var authErr *unauthorizedError
	if errors.As(err, &authErr) {
		return authErr.message
	}
	return ""
}

// unauthorizedError keeps the server message of a 401/403 while matching
// ErrUnauthorized.
type unauthorizedError struct {
	status  int
	message string
}

func (e *unauthorizedError) Error() string {
	if e.message == "" {
		return ErrUnauthorized.Error()
	}
	return fmt.Sprintf("%s: %s", ErrUnauthorized, e.message)
}

func (e *unauthorizedError) Is(target error) bool {
	return target == ErrUnauthorized
}
