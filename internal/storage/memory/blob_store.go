// Package memory provides an in-process blob store used in tests and when no
// archive bucket is configured.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Object is one stored payload.
type Object struct {
	ContentType string
	Data        []byte
}

// BlobStore keeps objects in a map, safe for concurrent use.
type BlobStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewBlobStore returns an empty store.
func NewBlobStore() *BlobStore {
	return &BlobStore{objects: make(map[string]Object)}
}

// PutObject stores a copy of data under path.
func (b *BlobStore) PutObject(_ context.Context, path string, contentType string, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[path] = Object{
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}
	return fmt.Sprintf("mem://%s", path), nil
}

// Get returns the object stored under path.
func (b *BlobStore) Get(path string) (Object, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[path]
	return obj, ok
}

// Len reports how many objects are stored.
func (b *BlobStore) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
