package services

import (
	"fmt"
	"net/http"

	"github.com/desertthunder/ytlikes/internal/shared"
)

// APIError is a non-2xx response from the proxy.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("youtube music API error (%s %s, status %d): %s", e.Method, e.Endpoint, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("youtube music API error (%s %s): status %d", e.Method, e.Endpoint, e.StatusCode)
}

// TransportError is a request that never got a response: refused, reset or
// dropped connections. Retrying may succeed.
type TransportError struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed (%s %s): %v", e.Method, e.Endpoint, e.Err)
}

func (e *TransportError) Temporary() bool { return true }

func (e *TransportError) Unwrap() error { return e.Err }

// Temporary reports whether retrying the same request may succeed.
func (e *APIError) Temporary() bool {
	switch {
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode == http.StatusRequestTimeout:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// Unwrap maps the status onto the shared sentinel errors.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return shared.ErrRateLimited
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return shared.ErrNotAuthenticated
	case e.StatusCode >= 500:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}
