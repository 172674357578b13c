package graph

import (
	"errors"
	"fmt"
	"time"
)

// Graph-specific errors.
var (
	// ErrNoClientID indicates no application client ID is configured.
	ErrNoClientID = errors.New("graph: no client ID configured")

	// ErrAuthDeclined indicates the user declined the device sign-in.
	ErrAuthDeclined = errors.New("graph: sign-in was declined")

	// ErrAuthTimeout indicates the device code expired before the user
	// approved the sign-in.
	ErrAuthTimeout = errors.New("graph: device code expired before approval")

	// ErrNoRefreshToken indicates the stored token cannot be refreshed.
	ErrNoRefreshToken = errors.New("graph: stored token has no refresh token")

	// ErrSearchUnavailable indicates the search endpoint could not
	// serve the request and a local scan should be used instead.
	ErrSearchUnavailable = errors.New("graph: server-side search unavailable")
)

// RateLimitError represents a throttled request with its retry time.
type RateLimitError struct {
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("graph: request throttled, retry at %s", e.RetryAt.Format(time.RFC3339))
}

// APIError represents a Graph API error response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
	URL        string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("graph: API error %d %s: %s (URL: %s)", e.StatusCode, e.Code, e.Message, e.URL)
	}
	return fmt.Sprintf("graph: API error %d (URL: %s)", e.StatusCode, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// IsForbidden checks if the error indicates a forbidden resource.
func IsForbidden(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 403
	}
	return false
}

// IsThrottled checks if the error indicates rate limiting.
func IsThrottled(err error) bool {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
