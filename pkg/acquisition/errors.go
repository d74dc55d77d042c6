package acquisition

import (
	"errors"
	"fmt"
)

// Error classes used for logging, events and metrics labels.
const (
	ClassNotFound        = "not_found"
	ClassRateLimited     = "rate_limited"
	ClassUpstreamFailure = "upstream_failure"
	ClassInvalidResponse = "invalid_response"
)

// NotFoundError is terminal: the upstream reports the resource does not
// exist. It is never retried and never cached.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record not found upstream: %s", e.Target)
}

// RateLimitedError is terminal for the current call: the upstream signaled
// the caller is exceeding the allowed request rate. Spacing calls apart is
// the invocation scheduler's job, not this layer's.
type RateLimitedError struct {
	Target string
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("upstream rate limited: %s", e.Target)
}

// UpstreamFailureError is terminal: a network error or unexpected status.
type UpstreamFailureError struct {
	Target string
	Err    error
}

func (e *UpstreamFailureError) Error() string {
	return fmt.Sprintf("upstream failure for %s: %v", e.Target, e.Err)
}

func (e *UpstreamFailureError) Unwrap() error { return e.Err }

// InvalidResponseError is terminal: the upstream answered successfully but
// the payload failed schema validation. Invalid data is never cached.
type InvalidResponseError struct {
	Target string
	Err    error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid upstream response for %s: %v", e.Target, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// ErrorClass maps an acquisition error to its class label.
func ErrorClass(err error) string {
	var notFound *NotFoundError
	var rateLimited *RateLimitedError
	var upstreamFailure *UpstreamFailureError
	var invalidResponse *InvalidResponseError

	switch {
	case errors.As(err, &notFound):
		return ClassNotFound
	case errors.As(err, &rateLimited):
		return ClassRateLimited
	case errors.As(err, &upstreamFailure):
		return ClassUpstreamFailure
	case errors.As(err, &invalidResponse):
		return ClassInvalidResponse
	default:
		return "unknown"
	}
}
