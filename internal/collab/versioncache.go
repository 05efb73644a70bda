package collab

import "sync"

// VersionCache remembers, per session, the last scene fingerprint known to be
// durably stored. It lets save short-circuit when the local scene already
// matches what the store holds.
//
// Entries live exactly as long as their session: the first Set for a session
// registers removal on the session's Close hook, so the cache never extends a
// session's lifetime and needs no explicit delete API beyond that. Absence is
// a normal state (never-synced session), not an error.
type VersionCache struct {
	mu      sync.RWMutex
	entries map[string]uint64
}

func NewVersionCache() *VersionCache {
	return &VersionCache{entries: make(map[string]uint64)}
}

// Get returns the last fingerprint confirmed durable for the session.
func (c *VersionCache) Get(sess *Session) (uint64, bool) {
	if sess == nil {
		return 0, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	fp, ok := c.entries[sess.ID]
	return fp, ok
}

// Set records the fingerprint for the session, last write wins. On the first
// write for a session it ties the entry's lifetime to the session.
func (c *VersionCache) Set(sess *Session, fp uint64) {
	if sess == nil {
		return
	}

	c.mu.Lock()
	_, existed := c.entries[sess.ID]
	c.entries[sess.ID] = fp
	c.mu.Unlock()

	if !existed {
		c.Bind(sess)
	}
}

// Bind registers removal of the session's entry on session teardown.
func (c *VersionCache) Bind(sess *Session) {
	sess.OnClose(func() { c.Forget(sess) })
}

// Forget drops the session's entry, if any.
func (c *VersionCache) Forget(sess *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sess.ID)
}

// Len reports the number of live entries. Used by tests and diagnostics.
func (c *VersionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
