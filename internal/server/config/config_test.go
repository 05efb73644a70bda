package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "", c.AuthSecret)
	assert.Equal(t, int64(32<<20), c.MaxBodyBytes)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
}

func Test_parseJson_Overlay(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(map[string]any{
		"endpoint_addr":    ":9090",
		"auth_secret":      "topsecret",
		"shutdown_timeout": "30s",
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	os.Args = []string{"testbin", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":9090", cfg.EndpointAddr)
	assert.Equal(t, "topsecret", cfg.AuthSecret)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	// Untouched fields keep their defaults.
	assert.Equal(t, int64(32<<20), cfg.MaxBodyBytes)
}
