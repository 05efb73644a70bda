// Package blobs persists attachment bodies, addressed by "prefix/id".
// Blobs are content-addressed and immutable, so writes are idempotent.
package blobs

import (
	"context"

	"github.com/dmitrijs2005/scenesync/internal/server/models"
)

type Repository interface {
	Put(ctx context.Context, rec *models.BlobRecord) error

	// Get returns common.ErrNotFound when no blob exists under the key.
	Get(ctx context.Context, key string) (*models.BlobRecord, error)
}
