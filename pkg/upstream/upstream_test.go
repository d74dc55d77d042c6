package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/illmade-knight/go-setcache/pkg/upstream"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*upstream.HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := upstream.NewHTTPClient(&upstream.HTTPClientConfig{BaseURL: server.URL}, zerolog.Nop())
	require.NoError(t, err)
	return client, server
}

func TestNewHTTPClient_Validation(t *testing.T) {
	_, err := upstream.NewHTTPClient(&upstream.HTTPClientConfig{}, zerolog.Nop())
	require.Error(t, err)

	_, err = upstream.NewHTTPClient(&upstream.HTTPClientConfig{BaseURL: "not a url"}, zerolog.Nop())
	require.Error(t, err)
}

func TestHTTPClient_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success sends identifying headers", func(t *testing.T) {
		// Arrange
		var gotUserAgent, gotAccept string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotUserAgent = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
			_, _ = w.Write([]byte(`{"code":"tla"}`))
		})

		// Act
		resp, err := client.Get(ctx, "/sets/tla")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.JSONEq(t, `{"code":"tla"}`, string(resp.Body))
		assert.Equal(t, upstream.DefaultUserAgent, gotUserAgent)
		assert.Equal(t, "application/json", gotAccept)
	})

	t.Run("404 classified as not found", func(t *testing.T) {
		// Arrange
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		// Act
		_, err := client.Get(ctx, "/sets/zzz")

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, upstream.ErrNotFound)
		assert.Contains(t, err.Error(), "/sets/zzz")
	})

	t.Run("429 classified as rate limited", func(t *testing.T) {
		// Arrange
		calls := 0
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusTooManyRequests)
		})

		// Act
		_, err := client.Get(ctx, "/sets/tla")

		// Assert
		require.Error(t, err)
		assert.ErrorIs(t, err, upstream.ErrRateLimited)
		assert.Equal(t, 1, calls, "rate-limited calls must never be retried internally")
	})

	t.Run("Unexpected status is a plain transport failure", func(t *testing.T) {
		// Arrange
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		// Act
		_, err := client.Get(ctx, "/sets/tla")

		// Assert
		require.Error(t, err)
		assert.NotErrorIs(t, err, upstream.ErrNotFound)
		assert.NotErrorIs(t, err, upstream.ErrRateLimited)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("Absolute target bypasses base URL", func(t *testing.T) {
		// Arrange
		other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		t.Cleanup(other.Close)

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("base server must not be called for absolute targets")
		})

		// Act
		resp, err := client.Get(ctx, other.URL+"/sets/tla")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
	})

	t.Run("Timeout surfaces as transport failure", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		t.Cleanup(server.Close)

		client, err := upstream.NewHTTPClient(&upstream.HTTPClientConfig{
			BaseURL: server.URL,
			Timeout: 20 * time.Millisecond,
		}, zerolog.Nop())
		require.NoError(t, err)

		// Act
		_, err = client.Get(ctx, "/sets/tla")

		// Assert
		require.Error(t, err)
		assert.NotErrorIs(t, err, upstream.ErrNotFound)
		assert.NotErrorIs(t, err, upstream.ErrRateLimited)
	})
}
