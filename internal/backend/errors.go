package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// NetworkError wraps transport failures: the request never produced a
// response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Message converts err into the text shown in an error toast. action is a
// gerund phrase such as "loading equipment".
func Message(action string, err error) string {
	var apiErr *APIError
	var netErr *NetworkError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("Request cancelled while %s", action)
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return fmt.Sprintf("Failed %s (HTTP %d): %s", action, apiErr.Status, apiErr.Message)
		}
		return fmt.Sprintf("Failed %s (HTTP %d)", action, apiErr.Status)
	case errors.As(err, &netErr):
		return fmt.Sprintf("Network error while %s", action)
	default:
		return fmt.Sprintf("Something went wrong while %s", action)
	}
}
