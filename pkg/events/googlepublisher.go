package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// GooglePublisher implements Publisher over Google Cloud Pub/Sub. Events are
// published directly, without batching: the caller issues one acquisition per
// scheduled tick, so throughput never justifies a batching layer here.
type GooglePublisher struct {
	topic  *pubsub.Topic
	logger zerolog.Logger
}

// NewGooglePublisher creates a publisher bound to one topic. It accepts a
// context to verify that the target topic exists before returning.
func NewGooglePublisher(ctx context.Context, client *pubsub.Client, topicID string, logger zerolog.Logger) (*GooglePublisher, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client cannot be nil")
	}
	topic := client.Topic(topicID)

	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for topic %s: %w", topicID, err)
	}
	if !exists {
		return nil, fmt.Errorf("pubsub topic %s does not exist", topicID)
	}

	return &GooglePublisher{
		topic:  topic,
		logger: logger.With().Str("component", "GooglePublisher").Str("topic_id", topicID).Logger(),
	}, nil
}

// Publish sends a single outcome event. It returns after queueing the message
// and logs the final publish result asynchronously, so a slow sink never
// delays the acquisition loop.
func (p *GooglePublisher) Publish(ctx context.Context, event OutcomeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal outcome event: %w", err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"from_cache":  strconv.FormatBool(event.FromCache),
			"error_class": event.ErrorClass,
		},
	})

	go func() {
		// Use a fresh context for Get so a short-lived publish context does not
		// cancel the confirmation wait.
		getCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		msgID, err := result.Get(getCtx)
		if err != nil {
			p.logger.Error().Err(err).Str("target", event.Target).Msg("Failed to publish outcome event.")
			return
		}
		p.logger.Debug().Str("published_msg_id", msgID).Msg("Outcome event sent.")
	}()

	return nil
}

// Stop flushes any pending messages for the topic, respecting the context's
// timeout.
func (p *GooglePublisher) Stop(ctx context.Context) error {
	if p.topic == nil {
		return nil
	}

	stopDone := make(chan struct{})
	go func() {
		p.topic.Stop()
		close(stopDone)
	}()

	select {
	case <-stopDone:
		return nil
	case <-ctx.Done():
		p.logger.Warn().Err(ctx.Err()).Msg("Timed out waiting for publisher flush.")
		return ctx.Err()
	}
}
