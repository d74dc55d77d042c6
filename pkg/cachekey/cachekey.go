// Package cachekey derives deterministic object-store keys from request targets.
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultPrefix is the namespace used when a Deriver is created without one.
const DefaultPrefix = "sets"

// Deriver computes stable cache keys for request targets. Hashing the
// normalized target sidesteps path-unsafe characters and key-length limits in
// the object store while keeping the mapping fully deterministic, so every
// caller converges on the same cache slot for the same logical request.
type Deriver struct {
	prefix string
}

// NewDeriver creates a Deriver scoped to the given namespace prefix.
// An empty prefix falls back to DefaultPrefix.
func NewDeriver(prefix string) *Deriver {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Deriver{prefix: strings.Trim(prefix, "/")}
}

// Derive returns the object-store key for a request target. It is a pure
// function: identical targets always yield identical keys, across processes
// and restarts.
func (d *Deriver) Derive(target string) string {
	normalized := strings.ToLower(strings.TrimSpace(target))
	digest := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%s/%s.json", d.prefix, hex.EncodeToString(digest[:]))
}
