package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/scenesync/internal/flagx"
	"github.com/dmitrijs2005/scenesync/internal/timex"
)

// JsonConfig is the DTO for reading server configuration files. It relies on
// timex.Duration so JSON can specify the shutdown timeout either as a string
// like "10s" or as integer nanoseconds. Values are copied into the runtime
// Config after unmarshalling.
type JsonConfig struct {
	EndpointAddr    string         `json:"endpoint_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	AuthSecret      string         `json:"auth_secret"`
	MaxBodyBytes    int64          `json:"max_body_bytes"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any. A missing flag means no file is loaded; an
// unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AuthSecret != "" {
		config.AuthSecret = c.AuthSecret
	}
	if c.MaxBodyBytes > 0 {
		config.MaxBodyBytes = c.MaxBodyBytes
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = time.Duration(c.ShutdownTimeout.Duration)
	}
}
