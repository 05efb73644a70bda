// Package config handles configuration for the storage server, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the scenesync storage server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty selects the in-memory backend.
//   - AuthSecret: HMAC secret for verifying bearer JWTs; empty disables auth.
//   - MaxBodyBytes: cap on scene/blob payload size.
//   - ShutdownTimeout: grace period for draining connections on shutdown.
type Config struct {
	EndpointAddr    string
	DatabaseDSN     string
	AuthSecret      string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with development defaults. The in-memory
// backend and disabled auth are insecure outside local use.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.AuthSecret = ""
	c.MaxBodyBytes = 32 << 20
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
