package scenes

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/server/models"
)

// MemoryRepository backs the server without a database, for development and
// tests. Safe for concurrent use.
type MemoryRepository struct {
	mu     sync.RWMutex
	scenes map[string]models.SceneRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{scenes: make(map[string]models.SceneRecord)}
}

func (r *MemoryRepository) Get(_ context.Context, roomID string) (*models.SceneRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.scenes[roomID]
	if !ok {
		return nil, common.ErrNotFound
	}

	out := rec
	out.Payload = append([]byte(nil), rec.Payload...)
	return &out, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, rec *models.SceneRecord, expected uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var current uint64
	if cur, ok := r.scenes[rec.RoomID]; ok {
		current = cur.Fingerprint
	}
	if current != expected {
		return common.ErrVersionConflict
	}

	r.scenes[rec.RoomID] = models.SceneRecord{
		RoomID:      rec.RoomID,
		Fingerprint: rec.Fingerprint,
		Payload:     append([]byte(nil), rec.Payload...),
		UpdatedAt:   time.Now(),
	}
	return nil
}
