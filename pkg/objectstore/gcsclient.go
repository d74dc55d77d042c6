package objectstore

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
)

// ====================================================================================
// This file defines a set of interfaces to abstract the Google Cloud Storage client.
// This abstraction allows the GCSStore to be tested without needing a real
// GCS client, improving unit test quality and speed.
// ====================================================================================

// --- GCS Client Abstraction Interfaces ---

// GCSClient abstracts the top-level *storage.Client.
type GCSClient interface {
	Bucket(name string) GCSBucketHandle
}

// GCSBucketHandle abstracts a *storage.BucketHandle.
type GCSBucketHandle interface {
	Object(name string) GCSObjectHandle
}

// GCSObjectHandle abstracts a *storage.ObjectHandle. Implementations return
// ErrObjectNotFound when the object does not exist.
type GCSObjectHandle interface {
	Attrs(ctx context.Context) (*Metadata, error)
	NewReader(ctx context.Context) (io.ReadCloser, error)
	NewWriter(ctx context.Context) GCSWriter
}

// GCSWriter abstracts a *storage.Writer. Object attributes must be set before
// the first call to Write.
type GCSWriter interface {
	io.WriteCloser
	SetContentType(contentType string)
	SetMetadata(metadata map[string]string)
}

// --- Adapters to wrap the concrete Google Cloud Storage client ---

// gcsClientAdapter wraps a *storage.Client to satisfy the GCSClient interface.
type gcsClientAdapter struct {
	client *storage.Client
}

// NewGCSClientAdapter creates an adapter that makes the concrete *storage.Client
// conform to the GCSClient interface.
func NewGCSClientAdapter(client *storage.Client) GCSClient {
	if client == nil {
		return nil
	}
	return &gcsClientAdapter{client: client}
}

// Bucket returns an adapter for the underlying bucket handle.
func (a *gcsClientAdapter) Bucket(name string) GCSBucketHandle {
	return &gcsBucketHandleAdapter{handle: a.client.Bucket(name)}
}

// gcsBucketHandleAdapter wraps a *storage.BucketHandle to satisfy GCSBucketHandle.
type gcsBucketHandleAdapter struct {
	handle *storage.BucketHandle
}

// Object returns an adapter for the underlying object handle.
func (a *gcsBucketHandleAdapter) Object(name string) GCSObjectHandle {
	return &gcsObjectHandleAdapter{handle: a.handle.Object(name)}
}

// gcsObjectHandleAdapter wraps a *storage.ObjectHandle.
type gcsObjectHandleAdapter struct {
	handle *storage.ObjectHandle
}

// Attrs fetches the object attributes, translating the client's not-exist
// sentinel into ErrObjectNotFound.
func (a *gcsObjectHandleAdapter) Attrs(ctx context.Context) (*Metadata, error) {
	attrs, err := a.handle.Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &Metadata{
		LastModified: attrs.Updated,
		ContentType:  attrs.ContentType,
		Tags:         attrs.Metadata,
	}, nil
}

// NewReader opens the object for reading, translating the client's not-exist
// sentinel into ErrObjectNotFound.
func (a *gcsObjectHandleAdapter) NewReader(ctx context.Context) (io.ReadCloser, error) {
	reader, err := a.handle.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return reader, nil
}

// NewWriter returns a writer adapter over the underlying *storage.Writer.
func (a *gcsObjectHandleAdapter) NewWriter(ctx context.Context) GCSWriter {
	return &gcsWriterAdapter{writer: a.handle.NewWriter(ctx)}
}

// gcsWriterAdapter wraps a *storage.Writer to expose attribute setters.
type gcsWriterAdapter struct {
	writer *storage.Writer
}

func (a *gcsWriterAdapter) Write(p []byte) (int, error) { return a.writer.Write(p) }

func (a *gcsWriterAdapter) Close() error { return a.writer.Close() }

func (a *gcsWriterAdapter) SetContentType(contentType string) {
	a.writer.ContentType = contentType
}

func (a *gcsWriterAdapter) SetMetadata(metadata map[string]string) {
	a.writer.Metadata = metadata
}
