package collab

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/logging"
	"github.com/dmitrijs2005/scenesync/internal/scene"
	"github.com/dmitrijs2005/scenesync/internal/store"
)

// SceneSync orchestrates the save/load cycle for one scene store.
//
// Save always re-fetches and reconciles before writing: the whole point of
// this layer is multi-writer convergence, and a blind overwrite would drop
// every edit other clients made since the caller's last load.
//
// There is no internal mutual exclusion across Save calls. Two overlapping
// saves for the same room each run their own load→reconcile→write sequence;
// the race is resolved solely by the store's precondition check, whose
// rejection surfaces as common.ErrVersionConflict.
type SceneSync struct {
	store     store.SceneStore
	cache     *VersionCache
	reconcile scene.Reconciler
	log       logging.Logger
}

// NewSceneSync wires a sync client. A nil reconciler falls back to the
// default last-writer-wins scene.Reconcile; a nil logger discards output.
func NewSceneSync(st store.SceneStore, cache *VersionCache, reconcile scene.Reconciler, log logging.Logger) *SceneSync {
	if reconcile == nil {
		reconcile = scene.Reconcile
	}
	if log == nil {
		log = logging.NewDiscardLogger()
	}
	return &SceneSync{store: st, cache: cache, reconcile: reconcile, log: log}
}

// IsSynced reports whether saving would be a no-op: the session has no room
// to sync against (vacuously synced, so callers never block on a detached
// session), or the cached durable fingerprint equals the local one. Pure and
// fast, no I/O.
func (s *SceneSync) IsSynced(sess *Session, local []scene.Element) bool {
	if !sess.HasRoom() {
		return true
	}
	cached, ok := s.cache.Get(sess)
	return ok && cached == scene.Fingerprint(local)
}

// Save pushes the local element set through the full sync cycle:
// load current remote state, reconcile, encode, conditionally write, confirm.
//
// Returns nil elements with nil error when there is nothing to do (detached
// session or already synced): repeated saves with unchanged state are
// idempotent and issue no network traffic. On success it returns the merged,
// canonical element view the caller should adopt as its new local state.
//
// A store precondition rejection (another client saved in between) returns
// common.ErrVersionConflict; retrying the whole cycle is the caller's
// decision (see SaveWithRetry).
func (s *SceneSync) Save(ctx context.Context, sess *Session, local []scene.Element, mctx scene.MergeContext) ([]scene.Element, error) {
	if !sess.HasRoom() || s.IsSynced(sess, local) {
		return nil, nil
	}

	remote, err := s.loadRemote(ctx, sess.RoomID, sess.RoomKey)
	if err != nil {
		return nil, err
	}
	prev := scene.Fingerprint(remote)

	merged := s.reconcile(local, remote, mctx)

	payload, err := scene.EncodeScene(merged, sess.RoomKey)
	if err != nil {
		return nil, fmt.Errorf("encoding scene: %w", err)
	}
	next := scene.Fingerprint(merged)

	err = s.store.PutScene(ctx, sess.RoomID, &store.StoredScene{Fingerprint: next, Payload: payload}, prev)
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			s.log.Warn(ctx, "scene save lost the version race", "room_id", sess.RoomID, "expected", prev)
			return nil, fmt.Errorf("saving scene: %w", err)
		}
		return nil, fmt.Errorf("saving scene: %w", err)
	}

	// Confirm against the payload that actually went out: the decoded view is
	// the canonical state the caller replaces its local copy with.
	confirmed, err := scene.DecodeScene(payload, sess.RoomKey)
	if err != nil {
		return nil, fmt.Errorf("confirming saved scene: %w", err)
	}

	s.cache.Set(sess, scene.Fingerprint(confirmed))
	s.log.Debug(ctx, "scene saved", "room_id", sess.RoomID, "version", next, "elements", len(confirmed))

	return confirmed, nil
}

// Load fetches and decodes the stored scene for a room. A room that has
// never been saved returns (nil, nil), not an error. When a session is
// supplied its cache entry is updated: loading counts as confirming sync
// state.
func (s *SceneSync) Load(ctx context.Context, roomID string, roomKey []byte, sess *Session) ([]scene.Element, error) {
	elements, err := s.loadRemote(ctx, roomID, roomKey)
	if err != nil {
		return nil, err
	}
	if elements == nil {
		return nil, nil
	}

	if sess != nil {
		s.cache.Set(sess, scene.Fingerprint(elements))
	}

	return elements, nil
}

// loadRemote returns nil elements (no error) for a never-saved room and
// propagates decode failures instead of masking them as an empty scene.
func (s *SceneSync) loadRemote(ctx context.Context, roomID string, roomKey []byte) ([]scene.Element, error) {
	stored, err := s.store.GetScene(ctx, roomID)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading scene: %w", err)
	}

	elements, err := scene.DecodeScene(stored.Payload, roomKey)
	if err != nil {
		return nil, err
	}

	return elements, nil
}
