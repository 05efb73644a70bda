// Package config handles configuration for the scenesync CLI, including
// defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the scenesync CLI.
//
// Fields:
//   - StoreType: backend selector, one of "memory", "http", "s3", "redis".
//   - StoreURL / AuthToken: http backend endpoint and optional bearer token.
//   - RedisAddr: redis backend address (host:port).
//   - S3Bucket / S3Region / S3Endpoint / S3AccessKey / S3SecretKey: s3 backend.
//   - RoomID: the collaborative room to sync against.
//   - RoomPassphrase: passphrase the room key is derived from; when empty the
//     CLI prompts for it interactively.
//   - ScenePath: path of the local scene file (JSON array of elements).
//   - FilesDir: directory holding attachment files to push/pull.
//   - MaxRetries: save retry budget on version conflicts.
type Config struct {
	StoreType      string
	StoreURL       string
	AuthToken      string
	RedisAddr      string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	RoomID         string
	RoomPassphrase string
	ScenePath      string
	FilesDir       string
	MaxRetries     uint64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreType = "http"
	c.StoreURL = "http://127.0.0.1:8080"
	c.ScenePath = "scene.json"
	c.FilesDir = "files"
	c.MaxRetries = 3
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
