package store

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/scenesync/internal/common"
)

// MemoryStore is an in-memory Store implementation, safe for concurrent use.
// It enforces the same compare-and-swap discipline as the remote backends,
// which makes it the reference store for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	scenes map[string]StoredScene
	blobs  map[string]BlobObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scenes: make(map[string]StoredScene),
		blobs:  make(map[string]BlobObject),
	}
}

func (m *MemoryStore) GetScene(_ context.Context, roomID string) (*StoredScene, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sc, ok := m.scenes[roomID]
	if !ok {
		return nil, common.ErrNotFound
	}

	out := StoredScene{Fingerprint: sc.Fingerprint, Payload: append([]byte(nil), sc.Payload...)}
	return &out, nil
}

func (m *MemoryStore) PutScene(_ context.Context, roomID string, sc *StoredScene, expected uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current uint64
	if cur, ok := m.scenes[roomID]; ok {
		current = cur.Fingerprint
	}
	if current != expected {
		return common.ErrVersionConflict
	}

	m.scenes[roomID] = StoredScene{
		Fingerprint: sc.Fingerprint,
		Payload:     append([]byte(nil), sc.Payload...),
	}
	return nil
}

func blobKey(prefix, id string) string {
	return prefix + "/" + id
}

func (m *MemoryStore) PutBlob(_ context.Context, prefix, id string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[blobKey(prefix, id)] = BlobObject{
		Data:        append([]byte(nil), data...),
		ContentType: contentType,
	}
	return nil
}

func (m *MemoryStore) GetBlob(_ context.Context, prefix, id string) (*BlobObject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.blobs[blobKey(prefix, id)]
	if !ok {
		return nil, common.ErrNotFound
	}

	out := BlobObject{Data: append([]byte(nil), b.Data...), ContentType: b.ContentType}
	return &out, nil
}
