// Package collab implements the scene synchronization protocol: the
// save/load cycle with its optimistic-concurrency discipline, the per-session
// fingerprint cache that suppresses redundant writes, and the best-effort
// concurrent attachment sync that runs alongside it.
package collab

import (
	"sync"

	"github.com/google/uuid"
)

// Session represents one client's live link to a collaborative room: an
// addressable identity plus the room id and room key. The sync layer borrows
// sessions per call and never owns them.
//
// A session accumulates cleanup hooks (e.g. dropping its version-cache entry)
// and runs them exactly once on Close. Anything keyed by a session must
// register a hook instead of holding the session alive.
type Session struct {
	ID      string
	RoomID  string
	RoomKey []byte

	mu       sync.Mutex
	closed   bool
	cleanups []func()
}

// NewSession creates a session bound to a room. An empty roomID produces a
// detached session: it is considered vacuously synced and save is a no-op.
func NewSession(roomID string, roomKey []byte) *Session {
	return &Session{
		ID:      uuid.NewString(),
		RoomID:  roomID,
		RoomKey: roomKey,
	}
}

// HasRoom reports whether the session is attached to a room.
func (s *Session) HasRoom() bool {
	return s != nil && s.RoomID != "" && len(s.RoomKey) > 0
}

// OnClose registers fn to run when the session is torn down. If the session
// is already closed, fn runs immediately.
func (s *Session) OnClose(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

// Close tears the session down, running registered cleanups once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cleanups := s.cleanups
	s.cleanups = nil
	s.mu.Unlock()

	for _, fn := range cleanups {
		fn()
	}
}
