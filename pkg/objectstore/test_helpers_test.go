package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// --- Mock GCS Client Components ---

// mockGCSWriter is a mock GCSWriter that finalizes into its parent object on Close.
type mockGCSWriter struct {
	buf         bytes.Buffer
	contentType string
	metadata    map[string]string
	closed      bool
	failOnClose bool
	parent      *mockGCSObject
}

func (m *mockGCSWriter) Write(p []byte) (int, error) {
	if m.closed {
		return 0, errors.New("write on closed writer")
	}
	return m.buf.Write(p)
}

func (m *mockGCSWriter) Close() error {
	if m.closed {
		return errors.New("already closed")
	}
	m.closed = true
	if m.failOnClose {
		return errors.New("simulated finalize failure")
	}
	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()
	m.parent.exists = true
	m.parent.body = m.buf.Bytes()
	m.parent.meta = Metadata{
		LastModified: m.parent.bucket.now(),
		ContentType:  m.contentType,
		Tags:         m.metadata,
	}
	return nil
}

func (m *mockGCSWriter) SetContentType(contentType string) { m.contentType = contentType }
func (m *mockGCSWriter) SetMetadata(md map[string]string)  { m.metadata = md }

// mockGCSObject is a mock GCSObjectHandle backed by in-memory state.
type mockGCSObject struct {
	mu         sync.Mutex
	bucket     *mockGCSBucket
	exists     bool
	body       []byte
	meta       Metadata
	failWrites bool
	attrsErr   error
	newReadErr error
}

func (m *mockGCSObject) Attrs(_ context.Context) (*Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attrsErr != nil {
		return nil, m.attrsErr
	}
	if !m.exists {
		return nil, ErrObjectNotFound
	}
	meta := m.meta
	return &meta, nil
}

func (m *mockGCSObject) NewReader(_ context.Context) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.newReadErr != nil {
		return nil, m.newReadErr
	}
	if !m.exists {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(m.body)), nil
}

func (m *mockGCSObject) NewWriter(_ context.Context) GCSWriter {
	return &mockGCSWriter{parent: m, failOnClose: m.failWrites}
}

// mockGCSBucket is a mock GCSBucketHandle that stores objects in a map.
type mockGCSBucket struct {
	mu      sync.Mutex
	objects map[string]*mockGCSObject
	now     func() time.Time
}

func (m *mockGCSBucket) Object(name string) GCSObjectHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[name]; !ok {
		m.objects[name] = &mockGCSObject{bucket: m}
	}
	return m.objects[name]
}

// object fetches the raw mock state for assertions.
func (m *mockGCSBucket) object(name string) *mockGCSObject {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[name]
}

// mockGCSClient is a mock GCSClient with a single bucket.
type mockGCSClient struct {
	bucket *mockGCSBucket
}

func newMockGCSClient() *mockGCSClient {
	return &mockGCSClient{
		bucket: &mockGCSBucket{
			objects: make(map[string]*mockGCSObject),
			now:     func() time.Time { return time.Now().UTC() },
		},
	}
}

func (m *mockGCSClient) Bucket(_ string) GCSBucketHandle {
	return m.bucket
}
