// Package common defines shared constants and sentinel errors used across
// the sync layer, the store backends and the storage server. Callers should
// use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")

	// Codec errors (decryption or deserialization failure). A failed decode
	// must surface as this error, never as an empty scene.
	ErrDecodeFailed = errors.New("decode failed")

	// Transport errors (store unreachable, timeout).
	ErrUnavailable = errors.New("store unavailable")
)
