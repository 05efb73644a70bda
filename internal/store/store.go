// Package store defines the remote storage capabilities the sync layer runs
// against, plus swappable backends: an in-memory store for tests and
// development, an HTTP client for the bundled storage server, an
// S3-compatible object store, and Redis.
//
// The server never sees plaintext: scene payloads and attachment bodies are
// opaque encrypted bytes by the time they reach a store.
package store

import (
	"context"
)

// StoredScene is the at-rest representation of one room's scene: an opaque
// encrypted payload (nonce||ciphertext) tagged with the fingerprint of the
// element set it decrypts to. The fingerprint doubles as the optimistic-
// concurrency version token.
type StoredScene struct {
	Fingerprint uint64
	Payload     []byte
}

// BlobObject is one stored attachment body.
type BlobObject struct {
	Data        []byte
	ContentType string
}

// SceneStore is a per-room single-object store with conditional writes.
type SceneStore interface {
	// GetScene returns the stored scene for a room, or common.ErrNotFound
	// when the room has never been saved.
	GetScene(ctx context.Context, roomID string) (*StoredScene, error)

	// PutScene writes a new scene version for a room. The write is accepted
	// only while the store's current fingerprint equals expected (0 means
	// "room must not exist yet"); otherwise common.ErrVersionConflict is
	// returned and the store is left unchanged.
	PutScene(ctx context.Context, roomID string, sc *StoredScene, expected uint64) error
}

// BlobStore holds immutable, independently addressable attachment bodies
// under (prefix, id) keys. Writes are idempotent: attachments are
// content-addressed by id, so repeating a put is safe.
type BlobStore interface {
	PutBlob(ctx context.Context, prefix, id string, data []byte, contentType string) error

	// GetBlob returns common.ErrNotFound when no blob exists under the key.
	GetBlob(ctx context.Context, prefix, id string) (*BlobObject, error)
}

// Store combines both capabilities; every bundled backend implements it.
type Store interface {
	SceneStore
	BlobStore
}
