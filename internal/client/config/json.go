package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/scenesync/internal/flagx"
)

// JsonConfig is the DTO for reading CLI configuration files. Values are
// copied into the runtime Config after unmarshalling.
type JsonConfig struct {
	StoreType      string `json:"store_type"`
	StoreURL       string `json:"store_url"`
	AuthToken      string `json:"auth_token"`
	RedisAddr      string `json:"redis_addr"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3Endpoint     string `json:"s3_endpoint"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	RoomID         string `json:"room_id"`
	RoomPassphrase string `json:"room_passphrase"`
	ScenePath      string `json:"scene_path"`
	FilesDir       string `json:"files_dir"`
	MaxRetries     uint64 `json:"max_retries"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flags, if any. A missing flag means no file is loaded; an
// unreadable or invalid file panics.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.StoreType != "" {
		cfg.StoreType = jc.StoreType
	}
	if jc.StoreURL != "" {
		cfg.StoreURL = jc.StoreURL
	}
	if jc.AuthToken != "" {
		cfg.AuthToken = jc.AuthToken
	}
	if jc.RedisAddr != "" {
		cfg.RedisAddr = jc.RedisAddr
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.RoomID != "" {
		cfg.RoomID = jc.RoomID
	}
	if jc.RoomPassphrase != "" {
		cfg.RoomPassphrase = jc.RoomPassphrase
	}
	if jc.ScenePath != "" {
		cfg.ScenePath = jc.ScenePath
	}
	if jc.FilesDir != "" {
		cfg.FilesDir = jc.FilesDir
	}
	if jc.MaxRetries > 0 {
		cfg.MaxRetries = jc.MaxRetries
	}
}
