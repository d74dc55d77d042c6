//go:build integration

package recordstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/illmade-knight/go-setcache/pkg/recordstore"
	"github.com/illmade-knight/go-setcache/pkg/setrecord"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a running Firestore emulator, e.g.
//
//	gcloud emulators firestore start --host-port=localhost:8765
//	FIRESTORE_EMULATOR_HOST=localhost:8765 go test -tags=integration ./pkg/recordstore/...
func TestFirestoreStore_Integration(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping Firestore integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	const projectID = "test-project"
	const collectionName = "set-records"

	client, err := firestore.NewClient(ctx, projectID)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store, err := recordstore.NewFirestoreStore(&recordstore.FirestoreConfig{
		ProjectID:      projectID,
		CollectionName: collectionName,
	}, client, zerolog.Nop())
	require.NoError(t, err)

	record := &setrecord.Record{
		ID:          "a4a0db50-8826-4e73-833c-3fd934375f96",
		Code:        "tla",
		Name:        "Avatar: The Last Airbender",
		SetType:     "expansion",
		CardCount:   358,
		ReleasedAt:  "2025-11-21",
		URI:         "https://api.example.test/sets/a4a0db50-8826-4e73-833c-3fd934375f96",
		ScryfallURI: "https://example.test/sets/tla",
		IconSVGURI:  "https://svgs.example.test/sets/tla.svg",
	}

	t.Run("Save then Get", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, record))

		got, err := store.Get(ctx, "tla")
		require.NoError(t, err)
		assert.Equal(t, record, got)
	})

	t.Run("Get miss", func(t *testing.T) {
		_, err := store.Get(ctx, "zzz")
		assert.ErrorIs(t, err, recordstore.ErrRecordNotFound)
	})
}
