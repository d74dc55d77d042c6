package microservice

import (
	"context"
	"fmt"

	"github.com/illmade-knight/go-setcache/pkg/acquisition"
	"github.com/illmade-knight/go-setcache/pkg/config"
	"github.com/illmade-knight/go-setcache/pkg/objectstore"
	"github.com/illmade-knight/go-setcache/pkg/upstream"
	"github.com/rs/zerolog"
)

// NewObjectStore builds the object-store client the configuration selects.
// The GCS client is injected so callers control its credentials and
// lifecycle; it may be nil for the redis and memory backends.
func NewObjectStore(
	ctx context.Context,
	cfg config.CacheConfig,
	gcsClient objectstore.GCSClient,
	logger zerolog.Logger,
) (objectstore.Client, error) {
	switch cfg.Backend {
	case "gcs":
		return objectstore.NewGCSStore(gcsClient, objectstore.GCSStoreConfig{BucketName: cfg.Bucket}, logger)
	case "redis":
		return objectstore.NewRedisStore(ctx, &objectstore.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
	case "memory":
		return objectstore.NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// NewAcquisitionService assembles the acquisition stack from configuration:
// the selected object store, the upstream HTTP client and the orchestrating
// service. The monitor may be nil.
func NewAcquisitionService(
	ctx context.Context,
	cfg config.Config,
	gcsClient objectstore.GCSClient,
	monitor acquisition.Monitor,
	logger zerolog.Logger,
) (*acquisition.Service, error) {
	store, err := NewObjectStore(ctx, cfg.Cache, gcsClient, logger)
	if err != nil {
		return nil, fmt.Errorf("build object store: %w", err)
	}

	upstreamClient, err := upstream.NewHTTPClient(&upstream.HTTPClientConfig{
		BaseURL:   cfg.Upstream.BaseURL,
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   cfg.UpstreamTimeout(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build upstream client: %w", err)
	}

	return acquisition.NewService(&acquisition.ServiceConfig{
		FreshnessWindow: cfg.FreshnessWindow(),
		KeyPrefix:       cfg.Cache.KeyPrefix,
	}, store, upstreamClient, monitor, logger)
}
