// Package blob keeps in-memory objects addressable through temporary
// "blob:" URLs. Every URL handed out by Create stays valid until Revoke.
package blob

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const scheme = "blob:"

var ErrNotFound = errors.New("blob not found")

type Blob struct {
	Type string
	Data []byte
}

type Registry struct {
	mu    sync.Mutex
	blobs map[string]Blob
}

func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]Blob)}
}

// Create stores a copy of data and returns a fresh URL for it.
func (r *Registry) Create(data []byte, mimeType string) string {
	url := scheme + uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.blobs == nil {
		r.blobs = make(map[string]Blob)
	}

	r.blobs[url] = Blob{Type: mimeType, Data: append([]byte(nil), data...)}

	return url
}

func (r *Registry) Open(url string) (Blob, error) {
	if !strings.HasPrefix(url, scheme) {
		return Blob{}, fmt.Errorf("%w: %q is not a blob url", ErrNotFound, url)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.blobs[url]
	if !ok {
		return Blob{}, fmt.Errorf("%w: %s", ErrNotFound, url)
	}

	return b, nil
}

// Revoke releases url. Revoking an unknown url is a no-op.
func (r *Registry) Revoke(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.blobs, url)
}

// Len returns the number of live URLs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.blobs)
}
