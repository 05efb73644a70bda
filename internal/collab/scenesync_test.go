package collab

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/cryptox"
	"github.com/dmitrijs2005/scenesync/internal/scene"
	"github.com/dmitrijs2005/scenesync/internal/store"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a Store and counts calls, so tests can assert that
// no-op saves really issue no traffic.
type countingStore struct {
	inner store.Store

	mu        sync.Mutex
	sceneGets int
	scenePuts int
}

func (c *countingStore) GetScene(ctx context.Context, roomID string) (*store.StoredScene, error) {
	c.mu.Lock()
	c.sceneGets++
	c.mu.Unlock()
	return c.inner.GetScene(ctx, roomID)
}

func (c *countingStore) PutScene(ctx context.Context, roomID string, sc *store.StoredScene, expected uint64) error {
	c.mu.Lock()
	c.scenePuts++
	c.mu.Unlock()
	return c.inner.PutScene(ctx, roomID, sc, expected)
}

func (c *countingStore) calls() (gets, puts int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sceneGets, c.scenePuts
}

func roomKey(t *testing.T) []byte {
	t.Helper()
	key, err := cryptox.GenerateKey()
	require.NoError(t, err)
	return key
}

func newSyncUnderTest(t *testing.T) (*SceneSync, *countingStore, *VersionCache) {
	t.Helper()
	cs := &countingStore{inner: store.NewMemoryStore()}
	cache := NewVersionCache()
	return NewSceneSync(cs, cache, nil, nil), cs, cache
}

func el(id string, version int64) scene.Element {
	return scene.Element{ID: id, Version: version, Updated: version * 100, Data: json.RawMessage(`{"type":"rect"}`)}
}

func TestIsSynced_DetachedSessionIsVacuouslySynced(t *testing.T) {
	s, _, _ := newSyncUnderTest(t)

	require.True(t, s.IsSynced(nil, nil))
	require.True(t, s.IsSynced(NewSession("", nil), []scene.Element{el("e1", 1)}))
}

func TestSave_DetachedSessionIsNoop(t *testing.T) {
	s, cs, _ := newSyncUnderTest(t)

	out, err := s.Save(context.Background(), NewSession("", nil), []scene.Element{el("e1", 1)}, scene.MergeContext{})
	require.NoError(t, err)
	require.Nil(t, out)

	gets, puts := cs.calls()
	require.Zero(t, gets)
	require.Zero(t, puts)
}

// The empty-room scenario: load finds nothing, the first save issues exactly
// one conditional write whose payload decrypts back to the local elements.
func TestSave_FirstSaveOfEmptyRoom(t *testing.T) {
	s, cs, cache := newSyncUnderTest(t)
	ctx := context.Background()
	key := roomKey(t)
	sess := NewSession("abc", key)

	loaded, err := s.Load(ctx, "abc", key, nil)
	require.NoError(t, err)
	require.Nil(t, loaded)

	local := []scene.Element{el("e1", 1)}
	out, err := s.Save(ctx, sess, local, scene.MergeContext{})
	require.NoError(t, err)
	require.Equal(t, local, out)

	_, puts := cs.calls()
	require.Equal(t, 1, puts)

	// The stored payload is opaque but decrypts to the saved elements.
	stored, err := cs.inner.GetScene(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, scene.Fingerprint(local), stored.Fingerprint)
	decoded, err := scene.DecodeScene(stored.Payload, key)
	require.NoError(t, err)
	require.Equal(t, local, decoded)

	fp, ok := cache.Get(sess)
	require.True(t, ok)
	require.Equal(t, scene.Fingerprint(local), fp)
}

func TestSave_SecondSaveWithUnchangedStateIsNoop(t *testing.T) {
	s, cs, _ := newSyncUnderTest(t)
	ctx := context.Background()
	sess := NewSession("abc", roomKey(t))
	local := []scene.Element{el("e1", 1)}

	out, err := s.Save(ctx, sess, local, scene.MergeContext{})
	require.NoError(t, err)
	require.NotNil(t, out)

	getsBefore, putsBefore := cs.calls()

	out, err = s.Save(ctx, sess, local, scene.MergeContext{})
	require.NoError(t, err)
	require.Nil(t, out)

	gets, puts := cs.calls()
	require.Equal(t, getsBefore, gets)
	require.Equal(t, putsBefore, puts)
}

// Convergence: two sessions with independent edits against the same room;
// nobody's edits are silently dropped.
func TestSave_TwoSessionsConverge(t *testing.T) {
	s, cs, _ := newSyncUnderTest(t)
	ctx := context.Background()
	key := roomKey(t)

	sessA := NewSession("room", key)
	sessB := NewSession("room", key)

	// A creates e1 and saves into the empty room.
	a1 := el("e1", 1)
	outA, err := s.Save(ctx, sessA, []scene.Element{a1}, scene.MergeContext{})
	require.NoError(t, err)
	require.Equal(t, []scene.Element{a1}, outA)

	// B, unaware of A, saves its own element; the cycle merges A's in.
	b1 := el("e2", 1)
	outB, err := s.Save(ctx, sessB, []scene.Element{b1}, scene.MergeContext{})
	require.NoError(t, err)
	require.ElementsMatch(t, []scene.Element{a1, b1}, outB)

	// A edits e1 and saves again; the result carries both clients' work.
	a2 := el("e1", 2)
	outA, err = s.Save(ctx, sessA, []scene.Element{a2}, scene.MergeContext{})
	require.NoError(t, err)
	require.ElementsMatch(t, []scene.Element{a2, b1}, outA)

	// Remote state agrees with A's final view.
	stored, err := cs.inner.GetScene(ctx, "room")
	require.NoError(t, err)
	remote, err := scene.DecodeScene(stored.Payload, key)
	require.NoError(t, err)
	require.ElementsMatch(t, outA, remote)
}

func TestLoad_NeverSavedRoomIsNil(t *testing.T) {
	s, _, _ := newSyncUnderTest(t)

	out, err := s.Load(context.Background(), "ghost", roomKey(t), nil)
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestLoad_UpdatesSessionCache(t *testing.T) {
	s, _, cache := newSyncUnderTest(t)
	ctx := context.Background()
	key := roomKey(t)

	writer := NewSession("room", key)
	local := []scene.Element{el("e1", 1)}
	_, err := s.Save(ctx, writer, local, scene.MergeContext{})
	require.NoError(t, err)

	reader := NewSession("room", key)
	out, err := s.Load(ctx, "room", key, reader)
	require.NoError(t, err)
	require.Equal(t, local, out)

	fp, ok := cache.Get(reader)
	require.True(t, ok)
	require.Equal(t, scene.Fingerprint(out), fp)
	require.True(t, s.IsSynced(reader, out))
}

func TestLoad_WrongKeySurfacesDecodeError(t *testing.T) {
	s, _, _ := newSyncUnderTest(t)
	ctx := context.Background()

	writer := NewSession("room", roomKey(t))
	_, err := s.Save(ctx, writer, []scene.Element{el("e1", 1)}, scene.MergeContext{})
	require.NoError(t, err)

	out, err := s.Load(ctx, "room", roomKey(t), nil)
	require.ErrorIs(t, err, common.ErrDecodeFailed)
	require.Nil(t, out)
}

// conflictingStore injects a competing writer between the load and the
// conditional write of every save, for a fixed number of saves.
type conflictingStore struct {
	store.Store
	key       []byte
	conflicts int
}

func (c *conflictingStore) PutScene(ctx context.Context, roomID string, sc *store.StoredScene, expected uint64) error {
	if c.conflicts > 0 {
		c.conflicts--

		cur, err := c.Store.GetScene(ctx, roomID)
		var fp uint64
		if err == nil {
			fp = cur.Fingerprint
		}
		rival := []scene.Element{{ID: "rival", Version: 1}}
		payload, err := scene.EncodeScene(rival, c.key)
		if err != nil {
			return err
		}
		if err := c.Store.PutScene(ctx, roomID, &store.StoredScene{Fingerprint: scene.Fingerprint(rival), Payload: payload}, fp); err != nil {
			return err
		}
	}
	return c.Store.PutScene(ctx, roomID, sc, expected)
}

func TestSave_LosingTheRaceSurfacesConflict(t *testing.T) {
	key := roomKey(t)
	cs := &conflictingStore{Store: store.NewMemoryStore(), key: key, conflicts: 1}
	s := NewSceneSync(cs, NewVersionCache(), nil, nil)

	_, err := s.Save(context.Background(), NewSession("room", key), []scene.Element{el("e1", 1)}, scene.MergeContext{})
	require.ErrorIs(t, err, common.ErrVersionConflict)
}

func TestSaveWithRetry_RecoversFromConflict(t *testing.T) {
	key := roomKey(t)
	cs := &conflictingStore{Store: store.NewMemoryStore(), key: key, conflicts: 1}
	s := NewSceneSync(cs, NewVersionCache(), nil, nil)

	local := []scene.Element{el("e1", 1)}
	out, err := SaveWithRetry(context.Background(), s, NewSession("room", key), local, scene.MergeContext{}, 3)
	require.NoError(t, err)

	// The retried cycle merged the rival's element instead of dropping it.
	ids := make([]string, 0, len(out))
	for _, e := range out {
		ids = append(ids, e.ID)
	}
	require.ElementsMatch(t, []string{"e1", "rival"}, ids)
}
