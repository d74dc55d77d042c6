package cachekey_test

import (
	"strings"
	"testing"

	"github.com/illmade-knight/go-setcache/pkg/cachekey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriver_Derive(t *testing.T) {
	t.Run("Deterministic across calls and instances", func(t *testing.T) {
		// Arrange
		d1 := cachekey.NewDeriver("sets")
		d2 := cachekey.NewDeriver("sets")
		target := "https://api.example.test/sets/tla"

		// Act
		key1 := d1.Derive(target)
		key2 := d1.Derive(target)
		key3 := d2.Derive(target)

		// Assert
		assert.Equal(t, key1, key2, "repeated calls must yield the same key")
		assert.Equal(t, key1, key3, "independent instances must yield the same key")
	})

	t.Run("Normalization collapses case and whitespace", func(t *testing.T) {
		// Arrange
		d := cachekey.NewDeriver("sets")

		// Act
		key1 := d.Derive("https://api.example.test/sets/tla")
		key2 := d.Derive("  HTTPS://API.EXAMPLE.TEST/SETS/TLA  ")

		// Assert
		assert.Equal(t, key1, key2)
	})

	t.Run("Distinct targets produce distinct keys", func(t *testing.T) {
		// Arrange
		d := cachekey.NewDeriver("sets")

		// Act
		keyA := d.Derive("https://api.example.test/sets/tla")
		keyB := d.Derive("https://api.example.test/sets/tlb")

		// Assert
		assert.NotEqual(t, keyA, keyB)
	})

	t.Run("Key format is prefix slash hex digest dot json", func(t *testing.T) {
		// Arrange
		d := cachekey.NewDeriver("sets")

		// Act
		key := d.Derive("https://api.example.test/sets/tla")

		// Assert
		require.True(t, strings.HasPrefix(key, "sets/"))
		require.True(t, strings.HasSuffix(key, ".json"))
		digest := strings.TrimSuffix(strings.TrimPrefix(key, "sets/"), ".json")
		assert.Len(t, digest, 64, "SHA-256 hex digest should be 64 characters")
	})

	t.Run("Empty prefix falls back to default", func(t *testing.T) {
		// Arrange
		d := cachekey.NewDeriver("")

		// Act
		key := d.Derive("anything")

		// Assert
		assert.True(t, strings.HasPrefix(key, cachekey.DefaultPrefix+"/"))
	})
}
