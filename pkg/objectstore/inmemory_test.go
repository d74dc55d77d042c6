package objectstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Put then get round trip", func(t *testing.T) {
		store := NewInMemoryStore()
		fixedTime := time.Date(2025, 11, 21, 9, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return fixedTime }

		err := store.PutBody(ctx, "sets/k.json", []byte("body"), "application/json", map[string]string{"a": "b"})
		require.NoError(t, err)

		meta, err := store.GetMetadata(ctx, "sets/k.json")
		require.NoError(t, err)
		assert.Equal(t, fixedTime, meta.LastModified)

		body, err := store.GetBody(ctx, "sets/k.json")
		require.NoError(t, err)
		assert.Equal(t, []byte("body"), body)
	})

	t.Run("Absent key", func(t *testing.T) {
		store := NewInMemoryStore()

		_, err := store.GetMetadata(ctx, "nope")
		assert.ErrorIs(t, err, ErrObjectNotFound)

		_, err = store.GetBody(ctx, "nope")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("Body is copied on read", func(t *testing.T) {
		store := NewInMemoryStore()
		require.NoError(t, store.PutBody(ctx, "k", []byte("abc"), "text/plain", nil))

		body, err := store.GetBody(ctx, "k")
		require.NoError(t, err)
		body[0] = 'x'

		again, err := store.GetBody(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})
}
