package store

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetScene_NotFound(t *testing.T) {
	m := NewMemoryStore()

	_, err := m.GetScene(context.Background(), "abc")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryStore_PutScene_CreateAndRead(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	err := m.PutScene(ctx, "abc", &StoredScene{Fingerprint: 42, Payload: []byte("p1")}, 0)
	require.NoError(t, err)

	sc, err := m.GetScene(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, uint64(42), sc.Fingerprint)
	require.Equal(t, []byte("p1"), sc.Payload)
}

func TestMemoryStore_PutScene_StalePreconditionRejected(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, m.PutScene(ctx, "abc", &StoredScene{Fingerprint: 1, Payload: []byte("v1")}, 0))

	// A writer that still believes the room is empty must lose.
	err := m.PutScene(ctx, "abc", &StoredScene{Fingerprint: 2, Payload: []byte("v2")}, 0)
	require.ErrorIs(t, err, common.ErrVersionConflict)

	// The stored scene is unchanged.
	sc, err := m.GetScene(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, uint64(1), sc.Fingerprint)

	// Matching precondition succeeds.
	require.NoError(t, m.PutScene(ctx, "abc", &StoredScene{Fingerprint: 2, Payload: []byte("v2")}, 1))
}

func TestMemoryStore_Blobs(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	_, err := m.GetBlob(ctx, "rooms/abc", "f1")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, m.PutBlob(ctx, "rooms/abc", "f1", []byte{1, 2, 3}, "image/png"))

	b, err := m.GetBlob(ctx, "rooms/abc", "f1")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b.Data)
	require.Equal(t, "image/png", b.ContentType)

	// Same id under a different prefix is a different object.
	_, err = m.GetBlob(ctx, "rooms/xyz", "f1")
	require.ErrorIs(t, err, common.ErrNotFound)
}
