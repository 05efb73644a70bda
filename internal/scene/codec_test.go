package scene

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/cryptox"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := cryptox.GenerateKey()
	require.NoError(t, err)
	return key
}

func TestSceneCodec_RoundTrip(t *testing.T) {
	key := testKey(t)

	original := []Element{
		{ID: "e1", Version: 2, Updated: 100, Data: json.RawMessage(`{"type":"rect","w":10}`)},
		{ID: "e2", Version: 1, Updated: 50, FileID: "f1"},
		{ID: "e3", Version: 4, Updated: 120, Deleted: true},
	}

	payload, err := EncodeScene(original, key)
	require.NoError(t, err)

	decoded, err := DecodeScene(payload, key)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestSceneCodec_EmptyScene(t *testing.T) {
	key := testKey(t)

	payload, err := EncodeScene(nil, key)
	require.NoError(t, err)

	decoded, err := DecodeScene(payload, key)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestDecodeScene_WrongKey(t *testing.T) {
	payload, err := EncodeScene([]Element{{ID: "e1", Version: 1}}, testKey(t))
	require.NoError(t, err)

	_, err = DecodeScene(payload, testKey(t))
	require.ErrorIs(t, err, common.ErrDecodeFailed)
}

func TestDecodeScene_TruncatedPayload(t *testing.T) {
	_, err := DecodeScene([]byte{1, 2, 3}, testKey(t))
	require.ErrorIs(t, err, common.ErrDecodeFailed)
}

func TestDecodeScene_CorruptedPayload(t *testing.T) {
	key := testKey(t)
	payload, err := EncodeScene([]Element{{ID: "e1", Version: 1}}, key)
	require.NoError(t, err)

	payload[len(payload)-1] ^= 0xff
	_, err = DecodeScene(payload, key)
	require.ErrorIs(t, err, common.ErrDecodeFailed)
}

func TestBlobCodec_RoundTrip(t *testing.T) {
	key := testKey(t)
	data := []byte{0x89, 0x50, 0x4e, 0x47, 0, 1, 2, 3}

	payload, err := EncodeBlob(data, key)
	require.NoError(t, err)

	decoded, err := DecodeBlob(payload, key)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}
