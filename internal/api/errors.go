package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNetwork wraps failures where no response reached the client. Callers treat
// it as retryable and may fall back to the local store.
var ErrNetwork = errors.New("remote service unreachable")

// Error is a non-2xx response from the remote service.
type Error struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote service returned %d", e.StatusCode)
	}
	return fmt.Sprintf("remote service returned %d: %s", e.StatusCode, e.Message)
}

func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	return statusOf(err)
}

func statusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
