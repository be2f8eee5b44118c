package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind buckets a failed metadata call.
type Kind string

const (
	KindRateLimit Kind = "rate_limit"
	KindAuth      Kind = "auth"
	KindNotFound  Kind = "not_found"
	KindNetwork   Kind = "network"
	KindAPI       Kind = "api"
)

// APIError is a non-200 response from the metadata API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tmdb api error: %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tmdb api error: %s: status %d", e.Endpoint, e.StatusCode)
}

// NetworkError wraps a transport failure (DNS, refused connection, timeout).
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("tmdb request %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Classify maps any error returned by the client to its bucket.
func Classify(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return KindRateLimit
		case http.StatusUnauthorized:
			return KindAuth
		case http.StatusNotFound:
			return KindNotFound
		default:
			return KindAPI
		}
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	return KindAPI
}

// UserMessage is the fixed user-facing text for a bucket.
func UserMessage(kind Kind) string {
	switch kind {
	case KindRateLimit:
		return "API rate limit exceeded. Please try again later."
	case KindAuth:
		return "Authentication failed. Please check your API key."
	case KindNotFound:
		return "Resource not found."
	case KindNetwork:
		return "Network connection lost. Please check your internet connection."
	default:
		return "An API error occurred. Please try again."
	}
}
