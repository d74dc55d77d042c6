package metrics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/illmade-knight/go-setcache/pkg/acquisition"
	"github.com/illmade-knight/go-setcache/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The recorder must be usable as the acquisition service's monitor.
var _ acquisition.Monitor = (*metrics.Recorder)(nil)

func TestRecorder_Counters(t *testing.T) {
	// Arrange
	rec := metrics.NewRecorder(nil)

	// Act
	rec.CacheHit(2 * time.Hour)
	rec.CacheHit(30 * time.Minute)
	rec.CacheMiss()
	rec.TerminalError("rate_limited")

	// Assert
	families, err := rec.Gatherer().Gather()
	require.NoError(t, err)

	byName := make(map[string]bool)
	for _, f := range families {
		byName[f.GetName()] = true
	}
	assert.True(t, byName["setcache_acquisition_lookups_total"])
	assert.True(t, byName["setcache_acquisition_cache_age_seconds"])
	assert.True(t, byName["setcache_acquisition_terminal_errors_total"])

	count, err := testutil.GatherAndCount(rec.Gatherer(),
		"setcache_acquisition_lookups_total",
		"setcache_acquisition_terminal_errors_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "expected hit, miss and one error series")
}

func TestRecorder_HandlerServesMetrics(t *testing.T) {
	// Arrange
	rec := metrics.NewRecorder(nil)
	rec.CacheMiss()

	server := httptest.NewServer(rec.Handler())
	t.Cleanup(server.Close)

	// Act
	resp, err := server.Client().Get(server.URL)

	// Assert
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, 200, resp.StatusCode)
}
