package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// GCSStoreConfig holds configuration for the GCS-backed object store.
type GCSStoreConfig struct {
	BucketName string
}

// GCSStore implements Client on top of a Google Cloud Storage bucket. GCS
// records object update times server-side, which makes the bucket the single
// source of truth for cache freshness.
type GCSStore struct {
	client GCSClient
	config GCSStoreConfig
	logger zerolog.Logger
}

// NewGCSStore creates a store bound to one bucket.
func NewGCSStore(gcsClient GCSClient, config GCSStoreConfig, logger zerolog.Logger) (*GCSStore, error) {
	if gcsClient == nil {
		return nil, errors.New("GCS client cannot be nil")
	}
	if config.BucketName == "" {
		return nil, errors.New("GCS bucket name is required")
	}
	return &GCSStore{
		client: gcsClient,
		config: config,
		logger: logger.With().Str("component", "GCSStore").Str("bucket", config.BucketName).Logger(),
	}, nil
}

// GetMetadata returns the attributes of the object under key.
func (s *GCSStore) GetMetadata(ctx context.Context, key string) (*Metadata, error) {
	attrs, err := s.client.Bucket(s.config.BucketName).Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("gcs attrs for %s: %w", key, err)
	}
	return attrs, nil
}

// GetBody reads the full object body.
func (s *GCSStore) GetBody(ctx context.Context, key string) ([]byte, error) {
	reader, err := s.client.Bucket(s.config.BucketName).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("gcs open reader for %s: %w", key, err)
	}
	defer func() { _ = reader.Close() }()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("gcs read body for %s: %w", key, err)
	}
	return body, nil
}

// PutBody creates or overwrites the object under key. GCS finalizes the
// object atomically on Close, so concurrent writers resolve last-write-wins.
func (s *GCSStore) PutBody(ctx context.Context, key string, body []byte, contentType string, tags map[string]string) error {
	writer := s.client.Bucket(s.config.BucketName).Object(key).NewWriter(ctx)
	writer.SetContentType(contentType)
	writer.SetMetadata(tags)

	if _, err := writer.Write(body); err != nil {
		_ = writer.Close()
		return fmt.Errorf("gcs write body for %s: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("gcs close writer for %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(body)).Msg("Object written to GCS.")
	return nil
}
