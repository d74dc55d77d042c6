package recordstore_test

import (
	"context"
	"testing"

	"github.com/illmade-knight/go-setcache/pkg/recordstore"
	"github.com/illmade-knight/go-setcache/pkg/setrecord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SaveAndGet(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := recordstore.NewInMemoryStore()
	record := &setrecord.Record{
		ID:         "a4a0db50-8826-4e73-833c-3fd934375f96",
		Code:       "tla",
		Name:       "Avatar: The Last Airbender",
		SetType:    "expansion",
		CardCount:  358,
		ReleasedAt: "2025-11-21",
	}

	// Act
	require.NoError(t, store.Save(ctx, record))
	got, err := store.Get(ctx, "tla")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, record, got)

	// Mutating the original must not affect the stored copy.
	record.Name = "changed"
	again, err := store.Get(ctx, "tla")
	require.NoError(t, err)
	assert.Equal(t, "Avatar: The Last Airbender", again.Name)
}

func TestInMemoryStore_GetAbsent(t *testing.T) {
	store := recordstore.NewInMemoryStore()

	_, err := store.Get(context.Background(), "zzz")

	assert.ErrorIs(t, err, recordstore.ErrRecordNotFound)
}

func TestInMemoryStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := recordstore.NewInMemoryStore()

	require.NoError(t, store.Save(ctx, &setrecord.Record{Code: "tla", CardCount: 300}))
	require.NoError(t, store.Save(ctx, &setrecord.Record{Code: "tla", CardCount: 358}))

	got, err := store.Get(ctx, "tla")
	require.NoError(t, err)
	assert.Equal(t, 358, got.CardCount)
}
