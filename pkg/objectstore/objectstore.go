// Package objectstore abstracts the remote object store that holds cached
// set records. The store's own last-modified timestamp is the authoritative
// freshness signal; nothing embedded in an object body is trusted for that.
package objectstore

import (
	"context"
	"errors"
	"time"
)

// ErrObjectNotFound signals that no object exists under the requested key.
var ErrObjectNotFound = errors.New("object not found")

// Metadata carries the store-level attributes of a cached object.
type Metadata struct {
	LastModified time.Time
	ContentType  string
	Tags         map[string]string
}

// Client is the minimal CRUD contract the acquisition layer needs from an
// object store. Implementations must guarantee atomic per-key overwrite;
// callers rely on last-write-wins semantics instead of locking.
type Client interface {
	// GetMetadata returns the attributes of the object under key, or
	// ErrObjectNotFound when the key is absent.
	GetMetadata(ctx context.Context, key string) (*Metadata, error)
	// GetBody returns the object body, or ErrObjectNotFound when absent.
	GetBody(ctx context.Context, key string) ([]byte, error)
	// PutBody creates or overwrites the object under key.
	PutBody(ctx context.Context, key string, body []byte, contentType string, tags map[string]string) error
}
