package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisFieldBody         = "body"
	redisFieldContentType  = "content_type"
	redisFieldLastModified = "last_modified"
	redisFieldTags         = "tags"
)

// RedisConfig holds the configuration for the Redis client.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore implements Client on top of Redis, for deployments that run
// without a bucket. Each object lives in a hash keyed by the cache key; the
// write timestamp is recorded as a hash field at put time, so freshness works
// the same way it does against GCS object attributes.
type RedisStore struct {
	redisClient *redis.Client
	logger      zerolog.Logger
	now         func() time.Time
}

// NewRedisStore creates and connects a new RedisStore. It pings the Redis
// server to ensure connectivity before returning.
func NewRedisStore(ctx context.Context, cfg *RedisConfig, logger zerolog.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info().Str("redis_address", cfg.Addr).Msg("Successfully connected to Redis.")

	return &RedisStore{
		redisClient: rdb,
		logger:      logger.With().Str("component", "RedisStore").Logger(),
		now:         time.Now,
	}, nil
}

// GetMetadata returns the stored attributes without loading the body.
func (s *RedisStore) GetMetadata(ctx context.Context, key string) (*Metadata, error) {
	fields, err := s.redisClient.HMGet(ctx, key, redisFieldLastModified, redisFieldContentType, redisFieldTags).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget for %s: %w", key, err)
	}
	if fields[0] == nil {
		return nil, ErrObjectNotFound
	}

	lastModified, err := time.Parse(time.RFC3339Nano, fields[0].(string))
	if err != nil {
		return nil, fmt.Errorf("redis parse last_modified for %s: %w", key, err)
	}

	meta := &Metadata{LastModified: lastModified}
	if ct, ok := fields[1].(string); ok {
		meta.ContentType = ct
	}
	if rawTags, ok := fields[2].(string); ok && rawTags != "" {
		if err := json.Unmarshal([]byte(rawTags), &meta.Tags); err != nil {
			return nil, fmt.Errorf("redis parse tags for %s: %w", key, err)
		}
	}
	return meta, nil
}

// GetBody returns the stored object body.
func (s *RedisStore) GetBody(ctx context.Context, key string) ([]byte, error) {
	body, err := s.redisClient.HGet(ctx, key, redisFieldBody).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("redis hget for %s: %w", key, err)
	}
	return []byte(body), nil
}

// PutBody overwrites the hash under key in a single HSET, preserving the
// store's atomic per-key overwrite guarantee.
func (s *RedisStore) PutBody(ctx context.Context, key string, body []byte, contentType string, tags map[string]string) error {
	encodedTags, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("redis marshal tags for %s: %w", key, err)
	}

	err = s.redisClient.HSet(ctx, key, map[string]any{
		redisFieldBody:         body,
		redisFieldContentType:  contentType,
		redisFieldLastModified: s.now().UTC().Format(time.RFC3339Nano),
		redisFieldTags:         string(encodedTags),
	}).Err()
	if err != nil {
		return fmt.Errorf("redis hset for %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(body)).Msg("Object written to Redis.")
	return nil
}

// Close closes the Redis client connection.
func (s *RedisStore) Close() error {
	if s.redisClient != nil {
		s.logger.Info().Msg("Closing Redis client connection...")
		return s.redisClient.Close()
	}
	return nil
}
