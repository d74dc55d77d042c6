// Package auditstore archives one row per acquisition call for diagnostics.
// Rows are batched in memory and streamed to BigQuery; archiving is
// best-effort and never blocks or fails an acquisition.
package auditstore

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Entry is one acquisition observation.
type Entry struct {
	Target     string    `bigquery:"target"`
	CacheKey   string    `bigquery:"cache_key"`
	FromCache  bool      `bigquery:"from_cache"`
	CacheAgeMS int64     `bigquery:"cache_age_ms"`
	ErrorClass string    `bigquery:"error_class"`
	OccurredAt time.Time `bigquery:"occurred_at"`
}

// BatchInserter abstracts the destination the batcher flushes to.
type BatchInserter interface {
	InsertBatch(ctx context.Context, entries []*Entry) error
	Close() error
}

// BatcherConfig holds configuration for the audit batcher.
type BatcherConfig struct {
	BatchSize     int
	FlushInterval time.Duration
	InsertTimeout time.Duration
}

// NewBatcherDefaults provides a config with sensible defaults.
func NewBatcherDefaults() *BatcherConfig {
	return &BatcherConfig{
		BatchSize:     50,
		FlushInterval: 30 * time.Second,
		InsertTimeout: 15 * time.Second,
	}
}

// Batcher collects entries and flushes them by size or interval.
type Batcher struct {
	config    *BatcherConfig
	inserter  BatchInserter
	logger    zerolog.Logger
	inputChan chan *Entry
	wg        sync.WaitGroup
}

// NewBatcher creates an audit batcher over the given inserter.
func NewBatcher(config *BatcherConfig, inserter BatchInserter, logger zerolog.Logger) *Batcher {
	return &Batcher{
		config:    config,
		inserter:  inserter,
		logger:    logger.With().Str("component", "AuditBatcher").Logger(),
		inputChan: make(chan *Entry, config.BatchSize*2),
	}
}

// Record queues an entry without blocking. When the buffer is full the entry
// is dropped; losing an audit row is preferable to stalling an acquisition.
func (b *Batcher) Record(entry *Entry) {
	select {
	case b.inputChan <- entry:
	default:
		b.logger.Warn().Str("target", entry.Target).Msg("Audit buffer full; dropping entry.")
	}
}

// Start begins the batching worker.
func (b *Batcher) Start(ctx context.Context) {
	b.logger.Info().
		Int("batch_size", b.config.BatchSize).
		Dur("flush_interval", b.config.FlushInterval).
		Msg("Starting audit batcher worker...")
	b.wg.Add(1)
	go b.worker(ctx)
}

// Stop drains pending entries and shuts the worker down, respecting the
// context's deadline.
func (b *Batcher) Stop(ctx context.Context) error {
	b.logger.Info().Msg("Stopping audit batcher...")
	close(b.inputChan)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info().Msg("Audit batcher worker stopped gracefully.")
	case <-ctx.Done():
		b.logger.Error().Err(ctx.Err()).Msg("Timeout waiting for audit batcher worker to stop.")
		return ctx.Err()
	}

	if err := b.inserter.Close(); err != nil {
		b.logger.Error().Err(err).Msg("Error closing underlying audit inserter.")
	}
	return nil
}

// worker collects entries into a batch and flushes on size or interval.
func (b *Batcher) worker(ctx context.Context) {
	defer b.wg.Done()
	batch := make([]*Entry, 0, b.config.BatchSize)
	ticker := time.NewTicker(b.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Shutting down: flush the remainder with a background context.
			b.flush(context.Background(), batch)
			return

		case entry, ok := <-b.inputChan:
			if !ok {
				b.flush(context.Background(), batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= b.config.BatchSize {
				b.flush(ctx, batch)
				batch = make([]*Entry, 0, b.config.BatchSize)
				ticker.Reset(b.config.FlushInterval)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				b.flush(ctx, batch)
				batch = make([]*Entry, 0, b.config.BatchSize)
			}
		}
	}
}

// flush streams one batch. Failures are logged; audit rows are not worth
// retry machinery.
func (b *Batcher) flush(ctx context.Context, batch []*Entry) {
	if len(batch) == 0 {
		return
	}

	insertCtx, cancel := context.WithTimeout(ctx, b.config.InsertTimeout)
	defer cancel()

	if err := b.inserter.InsertBatch(insertCtx, batch); err != nil {
		b.logger.Error().Err(err).Int("batch_size", len(batch)).Msg("Failed to insert audit batch.")
		return
	}
	b.logger.Debug().Int("batch_size", len(batch)).Msg("Flushed audit batch.")
}
