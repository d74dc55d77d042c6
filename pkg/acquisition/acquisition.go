// Package acquisition orchestrates the fetch-and-cache path for set records:
// derive the cache key, check store freshness, serve the cached record or
// fetch upstream, validate, and write through. The cache is a pure
// optimization — any integrity problem in it self-heals by re-fetching, and
// is never surfaced to the caller.
package acquisition

import (
	"context"
	"errors"
	"time"

	"github.com/illmade-knight/go-setcache/pkg/cachekey"
	"github.com/illmade-knight/go-setcache/pkg/objectstore"
	"github.com/illmade-knight/go-setcache/pkg/setrecord"
	"github.com/illmade-knight/go-setcache/pkg/upstream"
	"github.com/rs/zerolog"
)

// DefaultFreshnessWindow is the period a cached record may be served without
// re-fetching, mandated by the upstream's data-reuse policy.
const DefaultFreshnessWindow = 24 * time.Hour

const cacheContentType = "application/json"

// Provenance tags written alongside every cached body. Diagnostics only; the
// store's own last-modified timestamp decides freshness.
const (
	TagSourceTarget = "source-target"
	TagFetchedAt    = "fetched-at"
)

// Outcome describes how a record was obtained. It exists only for the
// duration of one GetRecord call.
type Outcome struct {
	Record    *setrecord.Record
	FromCache bool
	// CacheAge is the age of the served cache entry; zero when FromCache is false.
	CacheAge time.Duration
}

// Monitor receives per-call observations. Implementations must be cheap and
// non-blocking; a nil Monitor disables instrumentation.
type Monitor interface {
	CacheHit(age time.Duration)
	CacheMiss()
	TerminalError(class string)
}

// ServiceConfig holds configuration for the acquisition service.
type ServiceConfig struct {
	// FreshnessWindow defaults to DefaultFreshnessWindow when zero.
	FreshnessWindow time.Duration
	// KeyPrefix namespaces cache keys in the object store.
	KeyPrefix string
	// Now overrides the clock; tests use it to pin freshness boundaries.
	Now func() time.Time
}

// Service is the acquisition orchestrator. It holds no per-call state, so a
// single instance serves concurrent calls; the object store's last-write-wins
// overwrite resolves same-key races.
type Service struct {
	deriver  *cachekey.Deriver
	store    objectstore.Client
	upstream upstream.Client
	window   time.Duration
	now      func() time.Time
	monitor  Monitor
	logger   zerolog.Logger
}

// NewService creates an acquisition service. The monitor may be nil.
func NewService(
	cfg *ServiceConfig,
	store objectstore.Client,
	upstreamClient upstream.Client,
	monitor Monitor,
	logger zerolog.Logger,
) (*Service, error) {
	if store == nil {
		return nil, errors.New("object store client cannot be nil")
	}
	if upstreamClient == nil {
		return nil, errors.New("upstream client cannot be nil")
	}

	window := cfg.FreshnessWindow
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		deriver:  cachekey.NewDeriver(cfg.KeyPrefix),
		store:    store,
		upstream: upstreamClient,
		window:   window,
		now:      now,
		monitor:  monitor,
		logger:   logger.With().Str("component", "AcquisitionService").Logger(),
	}, nil
}

// GetRecord returns the validated record for a request target, served from
// the cache when the stored entry is younger than the freshness window and
// fetched upstream otherwise. It never returns a partial record: the result
// is either a fully validated Record or a typed terminal error.
func (s *Service) GetRecord(ctx context.Context, target string) (*Outcome, error) {
	key := s.deriver.Derive(target)
	logger := s.logger.With().Str("target", target).Str("key", key).Logger()

	if age, fresh := s.cacheFreshness(ctx, key, logger); fresh {
		if outcome := s.readCache(ctx, key, age, logger); outcome != nil {
			return outcome, nil
		}
	}

	return s.fetchAndCache(ctx, target, key, logger)
}

// cacheFreshness reports whether a fresh entry exists under key. Freshness is
// a strict comparison: an entry aged exactly at the window boundary is stale.
// Store metadata failures degrade to a cache miss; the cache must never turn
// into a source of errors.
func (s *Service) cacheFreshness(ctx context.Context, key string, logger zerolog.Logger) (time.Duration, bool) {
	meta, err := s.store.GetMetadata(ctx, key)
	if err != nil {
		if !errors.Is(err, objectstore.ErrObjectNotFound) {
			logger.Warn().Err(err).Msg("Cache metadata check failed; treating as miss.")
		}
		return 0, false
	}

	age := s.now().Sub(meta.LastModified)
	if age >= s.window {
		logger.Debug().Dur("cache_age", age).Msg("Cache entry is stale.")
		return 0, false
	}
	return age, true
}

// readCache returns the cached outcome, or nil when the body is unreadable or
// fails validation. Corruption is self-healing: the entry is wholly
// reconstructable from upstream, so the caller falls through to a fetch.
func (s *Service) readCache(ctx context.Context, key string, age time.Duration, logger zerolog.Logger) *Outcome {
	body, err := s.store.GetBody(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Msg("Cache body read failed; falling through to fetch.")
		return nil
	}

	record, err := setrecord.Validate(body)
	if err != nil {
		logger.Warn().Err(err).Msg("Cached body failed validation; discarding and re-fetching.")
		return nil
	}

	logger.Info().Dur("cache_age", age).Msg("Cache hit.")
	if s.monitor != nil {
		s.monitor.CacheHit(age)
	}
	return &Outcome{Record: record, FromCache: true, CacheAge: age}
}

// fetchAndCache performs the upstream round trip, validates the payload and
// writes it through to the store. A failed cache write is logged and
// swallowed: returning fresh, correct data takes priority over caching it.
func (s *Service) fetchAndCache(ctx context.Context, target, key string, logger zerolog.Logger) (*Outcome, error) {
	if s.monitor != nil {
		s.monitor.CacheMiss()
	}

	resp, err := s.upstream.Get(ctx, target)
	if err != nil {
		return nil, s.terminal(classifyUpstream(target, err), logger)
	}

	record, err := setrecord.Validate(resp.Body)
	if err != nil {
		return nil, s.terminal(&InvalidResponseError{Target: target, Err: err}, logger)
	}

	body, err := record.Marshal()
	if err != nil {
		// Marshal of a validated record cannot realistically fail, but if it
		// does the fresh record is still good to return.
		logger.Warn().Err(err).Msg("Failed to serialize record for caching; skipping cache write.")
		return &Outcome{Record: record, FromCache: false}, nil
	}

	tags := map[string]string{
		TagSourceTarget: target,
		TagFetchedAt:    s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.PutBody(ctx, key, body, cacheContentType, tags); err != nil {
		logger.Warn().Err(err).Msg("Cache write failed; record is still returned to the caller.")
	}

	logger.Info().Msg("Fetched fresh record from upstream.")
	return &Outcome{Record: record, FromCache: false}, nil
}

func (s *Service) terminal(err error, logger zerolog.Logger) error {
	class := ErrorClass(err)
	logger.Error().Err(err).Str("error_class", class).Msg("Acquisition failed.")
	if s.monitor != nil {
		s.monitor.TerminalError(class)
	}
	return err
}

// classifyUpstream maps upstream client errors to typed terminal errors.
func classifyUpstream(target string, err error) error {
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return &NotFoundError{Target: target}
	case errors.Is(err, upstream.ErrRateLimited):
		return &RateLimitedError{Target: target}
	default:
		return &UpstreamFailureError{Target: target, Err: err}
	}
}
