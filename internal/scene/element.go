// Package scene defines the element model shared by every collaborating
// client, the deterministic scene fingerprint used as an optimistic-
// concurrency version token, the last-writer-wins reconciliation of divergent
// element sets, and the encrypted envelope codec used to put scenes and
// attachments at rest.
package scene

import (
	"encoding/json"
	"time"
)

// Element is one drawable unit of a scene. The sync layer treats an element
// as an immutable value snapshot: it never mutates element contents, only
// replaces whole collections.
//
// Version increases on every edit of the element; Updated (unix milliseconds)
// breaks ties between concurrent edits carrying the same version. Deleted
// elements stay in the scene as tombstones so that a deletion survives
// reconciliation against a stale copy.
type Element struct {
	ID      string          `json:"id"`
	Version int64           `json:"version"`
	Updated int64           `json:"updated"`
	Deleted bool            `json:"deleted,omitempty"`
	FileID  string          `json:"fileId,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Attachment is an immutable binary blob referenced by elements through
// their FileID. Attachment bytes are never embedded in the scene itself.
type Attachment struct {
	ID            string
	Data          []byte
	MimeType      string
	Created       time.Time
	LastRetrieved time.Time
}
