// Package storage wires the server repositories to a concrete backend:
// Postgres for real deployments, memory for development and tests.
package storage

import (
	"github.com/dmitrijs2005/scenesync/internal/server/repositories/blobs"
	"github.com/dmitrijs2005/scenesync/internal/server/repositories/scenes"
)

// Manager hands out the repositories backed by one storage engine.
type Manager interface {
	Scenes() scenes.Repository
	Blobs() blobs.Repository
	Close() error
}

type MemoryManager struct {
	scenes *scenes.MemoryRepository
	blobs  *blobs.MemoryRepository
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		scenes: scenes.NewMemoryRepository(),
		blobs:  blobs.NewMemoryRepository(),
	}
}

func (m *MemoryManager) Scenes() scenes.Repository { return m.scenes }
func (m *MemoryManager) Blobs() blobs.Repository   { return m.blobs }
func (m *MemoryManager) Close() error              { return nil }
