package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/portfoliokit/media-content/pkg/mediacontent"
)

// Backend is an in-memory implementation of the mediacontent.BlobStore
// interface, intended for tests and local development.
type Backend struct {
	mu      sync.RWMutex
	objects map[string]storedObject
}

type storedObject struct {
	data        []byte
	contentType string
	transform   string
}

// New creates a new in-memory blob store
func New() *Backend {
	return &Backend{objects: make(map[string]storedObject)}
}

// Upload stores the blob under its object key.
func (b *Backend) Upload(ctx context.Context, reader io.Reader, params mediacontent.UploadParams) (*mediacontent.StoredBlob, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[params.Key] = storedObject{
		data:        data,
		contentType: params.ContentType,
		transform:   params.Transform,
	}

	return &mediacontent.StoredBlob{
		RemoteRef: params.Key,
		URL:       memURL(params.Key),
		Size:      int64(len(data)),
	}, nil
}

// Derive copies an existing blob under a variant key.
func (b *Backend) Derive(ctx context.Context, sourceRef string, params mediacontent.DeriveParams) (*mediacontent.StoredBlob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	source, exists := b.objects[sourceRef]
	if !exists {
		return nil, fmt.Errorf("source blob %s not found", sourceRef)
	}

	key := fmt.Sprintf("renditions/%s/%s", params.Variant, sourceRef)
	b.objects[key] = storedObject{
		data:        append([]byte(nil), source.data...),
		contentType: source.contentType,
		transform:   params.Transform,
	}

	return &mediacontent.StoredBlob{
		RemoteRef: key,
		URL:       memURL(key),
		Size:      int64(len(source.data)),
	}, nil
}

// Delete removes a blob.
func (b *Backend) Delete(ctx context.Context, remoteRef string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[remoteRef]; !exists {
		return fmt.Errorf("blob %s not found", remoteRef)
	}
	delete(b.objects, remoteRef)
	return nil
}

// URL returns the retrievable URL for a stored blob.
func (b *Backend) URL(ctx context.Context, remoteRef string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, exists := b.objects[remoteRef]; !exists {
		return "", fmt.Errorf("blob %s not found", remoteRef)
	}
	return memURL(remoteRef), nil
}

// Has reports whether a blob exists, for assertions in tests.
func (b *Backend) Has(remoteRef string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, exists := b.objects[remoteRef]
	return exists
}

// Len returns the number of stored blobs.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}

func memURL(key string) string {
	return "memory://" + key
}
