package store

import (
	"context"
	"fmt"
)

// Config selects and configures a store backend.
type Config struct {
	// Type is one of "memory", "http", "s3", "redis".
	Type string

	// BaseURL and AuthToken configure the http backend.
	BaseURL   string
	AuthToken string

	// RedisAddr configures the redis backend.
	RedisAddr string

	// S3 configures the s3 backend.
	S3 S3Config
}

// New creates a Store implementation based on the config type.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "http":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("http store requires a base URL")
		}
		return NewHTTPStore(cfg.BaseURL, cfg.AuthToken), nil
	case "s3":
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("s3 store requires a bucket")
		}
		return NewS3Store(ctx, cfg.S3)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis store requires an address")
		}
		return NewRedisStore(ctx, cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
