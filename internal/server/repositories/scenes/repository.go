// Package scenes persists per-room scene versions with compare-and-swap
// writes keyed on the scene fingerprint.
package scenes

import (
	"context"

	"github.com/dmitrijs2005/scenesync/internal/server/models"
)

type Repository interface {
	// Get returns the stored scene for a room or common.ErrNotFound.
	Get(ctx context.Context, roomID string) (*models.SceneRecord, error)

	// Upsert stores a new scene version. The write succeeds only while the
	// current fingerprint equals expected (0 for a room that must not exist
	// yet); otherwise common.ErrVersionConflict is returned.
	Upsert(ctx context.Context, rec *models.SceneRecord, expected uint64) error
}
