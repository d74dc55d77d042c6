// Package events publishes one outcome event per acquisition call to the
// downstream log/metrics sink.
package events

import (
	"context"
	"time"
)

// OutcomeEvent describes the result of a single acquisition call.
type OutcomeEvent struct {
	Target     string    `json:"target"`
	CacheKey   string    `json:"cache_key"`
	FromCache  bool      `json:"from_cache"`
	CacheAgeMS int64     `json:"cache_age_ms"`
	ErrorClass string    `json:"error_class,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers outcome events to the sink.
type Publisher interface {
	Publish(ctx context.Context, event OutcomeEvent) error
	// Stop flushes any pending events, respecting the context's deadline.
	Stop(ctx context.Context) error
}
