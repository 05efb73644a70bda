package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/scenesync/internal/collab"
	"github.com/dmitrijs2005/scenesync/internal/cryptox"
	"github.com/dmitrijs2005/scenesync/internal/scene"
	"github.com/dmitrijs2005/scenesync/internal/server/auth"
	"github.com/dmitrijs2005/scenesync/internal/server/config"
	"github.com/dmitrijs2005/scenesync/internal/store"
)

func newTestApp(t *testing.T, authSecret string) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AuthSecret = authSecret

	app, err := NewApp(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(app.Router())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealth(t *testing.T) {
	ts := newTestApp(t, "")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// Drives the real HTTP client against the real server: two sessions in the
// same room converge on a merged scene through conditional writes.
func TestEndToEnd_SaveAndLoad(t *testing.T) {
	ts := newTestApp(t, "")

	key, err := cryptox.GenerateKey()
	require.NoError(t, err)

	ctx := context.Background()
	st := store.NewHTTPStore(ts.URL, "")
	cache := collab.NewVersionCache()

	sessA := collab.NewSession("room-1", key)
	sessB := collab.NewSession("room-1", key)

	sync := collab.NewSceneSync(st, cache, nil, nil)

	e1 := scene.Element{ID: "e1", Version: 1, Updated: 100, Data: json.RawMessage(`{"t":"rect"}`)}
	saved, err := sync.Save(ctx, sessA, []scene.Element{e1}, scene.MergeContext{})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	e2 := scene.Element{ID: "e2", Version: 1, Updated: 200, Data: json.RawMessage(`{"t":"line"}`)}
	saved, err = sync.Save(ctx, sessB, []scene.Element{e2}, scene.MergeContext{})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	loaded, err := sync.Load(ctx, "room-1", key, sessA)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.True(t, sync.IsSynced(sessA, loaded))
}

func TestEndToEnd_Attachments(t *testing.T) {
	ts := newTestApp(t, "")

	key, err := cryptox.GenerateKey()
	require.NoError(t, err)

	ctx := context.Background()
	st := store.NewHTTPStore(ts.URL, "")
	att := collab.NewAttachmentSync(st, nil)

	sealed, err := scene.EncodeBlob([]byte("png-bytes"), key)
	require.NoError(t, err)

	payloads := []collab.AttachmentPayload{
		{ID: "f1", Data: sealed},
	}
	saved, errored := att.SaveAttachments(ctx, "rooms-room-1", payloads)
	require.Equal(t, []string{"f1"}, saved)
	require.Empty(t, errored)

	loaded, errored := att.LoadAttachments(ctx, "rooms-room-1", key, []string{"f1", "missing"})
	require.Len(t, loaded, 1)
	require.Equal(t, "f1", loaded[0].ID)
	require.Equal(t, []byte("png-bytes"), loaded[0].Data)
	require.Equal(t, []string{"missing"}, errored)
}

func TestEndToEnd_AuthRequired(t *testing.T) {
	ts := newTestApp(t, "topsecret")

	// Anonymous client is rejected.
	anon := store.NewHTTPStore(ts.URL, "")
	_, err := anon.GetScene(context.Background(), "room-1")
	require.Error(t, err)

	token, err := auth.NewToken("topsecret", "client-1", time.Minute)
	require.NoError(t, err)

	authed := store.NewHTTPStore(ts.URL, token)
	err = authed.PutScene(context.Background(), "room-1", &store.StoredScene{Fingerprint: 1, Payload: []byte("p")}, 0)
	require.NoError(t, err)

	sc, err := authed.GetScene(context.Background(), "room-1")
	require.NoError(t, err)
	require.Equal(t, uint64(1), sc.Fingerprint)
}
