package blobs

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	blobs map[string]models.BlobRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{blobs: make(map[string]models.BlobRecord)}
}

func (r *MemoryRepository) Put(_ context.Context, rec *models.BlobRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.blobs[rec.Key] = models.BlobRecord{
		Key:         rec.Key,
		ContentType: rec.ContentType,
		Data:        append([]byte(nil), rec.Data...),
		UpdatedAt:   time.Now(),
	}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, key string) (*models.BlobRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.blobs[key]
	if !ok {
		return nil, common.ErrNotFound
	}

	out := rec
	out.Data = append([]byte(nil), rec.Data...)
	return &out, nil
}
