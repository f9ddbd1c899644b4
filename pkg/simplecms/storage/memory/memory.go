package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
)

type blob struct {
	data     []byte
	mimeType string
}

var _ simplecms.BlobStore = (*Backend)(nil)

// Backend is an in-memory implementation of the simplecms.BlobStore interface
type Backend struct {
	mu        sync.RWMutex
	objects   map[string]blob
	keys      objectkey.Generator
	urlPrefix string
}

// New creates a new in-memory storage backend
func New() *Backend {
	return NewWithGenerator(objectkey.NewDatePathGenerator())
}

// NewWithGenerator creates an in-memory backend with a custom key generator
func NewWithGenerator(keys objectkey.Generator) *Backend {
	return &Backend{
		objects:   make(map[string]blob),
		keys:      keys,
		urlPrefix: "/media/files/",
	}
}

// Save stores the payload under a freshly generated locator
func (b *Backend) Save(ctx context.Context, reader io.Reader, originalName, mimeType string) (string, string, error) {
	locator := b.keys.GenerateKey(originalName)
	url, err := b.Put(ctx, locator, reader, mimeType)
	if err != nil {
		return "", "", err
	}
	return locator, url, nil
}

// Put reads the whole payload before storing it, so a failed read stores nothing
func (b *Backend) Put(ctx context.Context, locator string, reader io.Reader, mimeType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read payload: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[locator] = blob{data: data, mimeType: mimeType}
	return b.urlPrefix + locator, nil
}

// Open returns a reader over a copy of the stored bytes
func (b *Backend) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[locator]
	if !exists {
		return nil, simplecms.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), obj.data...))), nil
}

// Delete removes a blob and reports whether it existed
func (b *Backend) Delete(ctx context.Context, locator string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[locator]; !exists {
		return false, nil
	}
	delete(b.objects, locator)
	return true, nil
}

// ResolvePath returns a memory:// URI for the locator
func (b *Backend) ResolvePath(locator string) string {
	return "memory://" + locator
}

// Len returns the number of stored blobs.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}

// MimeType returns the type a blob was stored with.
func (b *Backend) MimeType(locator string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[locator]
	return obj.mimeType, ok
}
