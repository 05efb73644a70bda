// Package models defines the records the storage server persists. Payloads
// are opaque encrypted bytes; the server never holds a room key and cannot
// read them.
package models

import "time"

// SceneRecord is one room's stored scene version.
type SceneRecord struct {
	RoomID      string
	Fingerprint uint64
	Payload     []byte
	UpdatedAt   time.Time
}

// BlobRecord is one stored attachment body, addressed by "prefix/id".
type BlobRecord struct {
	Key         string
	ContentType string
	Data        []byte
	UpdatedAt   time.Time
}
