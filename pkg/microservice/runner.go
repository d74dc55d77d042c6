package microservice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/illmade-knight/go-setcache/pkg/acquisition"
	"github.com/illmade-knight/go-setcache/pkg/auditstore"
	"github.com/illmade-knight/go-setcache/pkg/cachekey"
	"github.com/illmade-knight/go-setcache/pkg/events"
	"github.com/illmade-knight/go-setcache/pkg/recordstore"
	"github.com/rs/zerolog"
)

// Acquirer is the invocation boundary of the acquisition layer.
type Acquirer interface {
	GetRecord(ctx context.Context, target string) (*acquisition.Outcome, error)
}

// RunnerConfig holds configuration for the acquisition runner.
type RunnerConfig struct {
	// Interval spaces ticks apart. It doubles as the upstream request
	// spacing: the runner issues at most one acquisition per tick, serially,
	// so rate-limit pacing lives here and never inside the acquisition layer.
	Interval time.Duration
	// Targets is the list of request targets walked round-robin.
	Targets []string
	// KeyPrefix mirrors the acquisition service's key namespace so events
	// and audit rows carry the cache key the service derived.
	KeyPrefix string
	// CallTimeout bounds one acquisition call. Defaults to the interval.
	CallTimeout time.Duration
}

// Runner invokes the acquisition layer once per tick. A failed tick is logged
// and published; the next scheduled tick is the retry policy.
type Runner struct {
	config    RunnerConfig
	acquirer  Acquirer
	deriver   *cachekey.Deriver
	records   recordstore.Store
	publisher events.Publisher
	audit     *auditstore.Batcher
	logger    zerolog.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
	now      func() time.Time
}

// NewRunner creates a runner. The record store, publisher and audit batcher
// are each optional; a nil collaborator disables that output.
func NewRunner(
	cfg RunnerConfig,
	acquirer Acquirer,
	records recordstore.Store,
	publisher events.Publisher,
	audit *auditstore.Batcher,
	logger zerolog.Logger,
) (*Runner, error) {
	if acquirer == nil {
		return nil, errors.New("acquirer cannot be nil")
	}
	if len(cfg.Targets) == 0 {
		return nil, errors.New("at least one request target is required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("tick interval must be positive")
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = cfg.Interval
	}

	return &Runner{
		config:    cfg,
		acquirer:  acquirer,
		deriver:   cachekey.NewDeriver(cfg.KeyPrefix),
		records:   records,
		publisher: publisher,
		audit:     audit,
		logger:    logger.With().Str("component", "AcquisitionRunner").Logger(),
		stopChan:  make(chan struct{}),
		now:       time.Now,
	}, nil
}

// Start begins the tick loop in a background goroutine.
func (r *Runner) Start(ctx context.Context) error {
	r.logger.Info().
		Dur("interval", r.config.Interval).
		Int("target_count", len(r.config.Targets)).
		Msg("Starting acquisition runner...")

	if r.audit != nil {
		r.audit.Start(ctx)
	}

	r.wg.Add(1)
	go r.loop(ctx)
	return nil
}

// Shutdown stops the tick loop and flushes the optional collaborators,
// respecting the context's deadline.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.logger.Info().Msg("Stopping acquisition runner...")
	r.stopOnce.Do(func() { close(r.stopChan) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	var combined error
	if r.publisher != nil {
		if err := r.publisher.Stop(ctx); err != nil {
			combined = errors.Join(combined, err)
		}
	}
	if r.audit != nil {
		if err := r.audit.Stop(ctx); err != nil {
			combined = errors.Join(combined, err)
		}
	}
	r.logger.Info().Msg("Acquisition runner stopped.")
	return combined
}

// loop walks the targets round-robin, one acquisition per tick. Targets are
// never acquired concurrently, which is what keeps same-key races out of the
// acquisition layer.
func (r *Runner) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	next := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			target := r.config.Targets[next%len(r.config.Targets)]
			next++
			r.processTick(ctx, target)
		}
	}
}

// processTick runs one acquisition and fans the result out to the record
// store, event sink and audit archive.
func (r *Runner) processTick(ctx context.Context, target string) {
	callCtx, cancel := context.WithTimeout(ctx, r.config.CallTimeout)
	defer cancel()

	outcome, err := r.acquirer.GetRecord(callCtx, target)

	event := events.OutcomeEvent{
		Target:     target,
		CacheKey:   r.deriver.Derive(target),
		OccurredAt: r.now().UTC(),
	}

	if err != nil {
		event.ErrorClass = acquisition.ErrorClass(err)
		r.logger.Error().Err(err).Str("target", target).Str("error_class", event.ErrorClass).Msg("Acquisition tick failed.")
	} else {
		event.FromCache = outcome.FromCache
		event.CacheAgeMS = outcome.CacheAge.Milliseconds()

		if !outcome.FromCache && r.records != nil {
			if saveErr := r.records.Save(callCtx, outcome.Record); saveErr != nil {
				r.logger.Error().Err(saveErr).Str("code", outcome.Record.Code).Msg("Failed to save record downstream.")
			}
		}
	}

	if r.publisher != nil {
		if pubErr := r.publisher.Publish(callCtx, event); pubErr != nil {
			r.logger.Error().Err(pubErr).Str("target", target).Msg("Failed to publish outcome event.")
		}
	}
	if r.audit != nil {
		r.audit.Record(&auditstore.Entry{
			Target:     event.Target,
			CacheKey:   event.CacheKey,
			FromCache:  event.FromCache,
			CacheAgeMS: event.CacheAgeMS,
			ErrorClass: event.ErrorClass,
			OccurredAt: event.OccurredAt,
		})
	}
}
