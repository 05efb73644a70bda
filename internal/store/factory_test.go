package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Memory(t *testing.T) {
	s, err := New(context.Background(), Config{Type: "memory"})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)
}

func TestNew_HTTP(t *testing.T) {
	s, err := New(context.Background(), Config{Type: "http", BaseURL: "http://127.0.0.1:8080"})
	require.NoError(t, err)
	require.IsType(t, &HTTPStore{}, s)
}

func TestNew_HTTPRequiresBaseURL(t *testing.T) {
	_, err := New(context.Background(), Config{Type: "http"})
	require.Error(t, err)
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(context.Background(), Config{Type: "carrier-pigeon"})
	require.Error(t, err)
}
