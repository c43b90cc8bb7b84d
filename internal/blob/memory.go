package blob

import (
	"context"
	"slices"
	"sync"

	"github.com/ieee-synapse/synapse-api/internal/domain"
	"github.com/ieee-synapse/synapse-api/internal/pkg/objectid"
	"github.com/ieee-synapse/synapse-api/internal/repository"
)

// MemoryBackend keeps blobs in process memory.
type MemoryBackend struct {
	mu    sync.Mutex
	blobs map[string]domain.Blob
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		blobs: map[string]domain.Blob{},
	}
}

func (b *MemoryBackend) ForSession(id domain.SessionID) repository.BlobStore {
	return &memoryStore{backend: b, prefix: id.String() + "/"}
}

// Len returns the number of stored blobs across sessions.
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.blobs)
}

type memoryStore struct {
	backend *MemoryBackend
	prefix  string
}

func (s *memoryStore) Put(_ context.Context, data []byte, filename, contentType string) (string, error) {
	id := objectid.New()

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.blobs[s.prefix+id] = domain.Blob{
		ID:          id,
		Filename:    filename,
		ContentType: contentType,
		Data:        slices.Clone(data),
	}

	return id, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (domain.Blob, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	b, ok := s.backend.blobs[s.prefix+id]
	if !ok {
		return domain.Blob{}, repository.ErrBlobNotFound
	}

	return b, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	delete(s.backend.blobs, s.prefix+id)

	return nil
}
