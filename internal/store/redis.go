package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/scenesync/internal/common"
)

// RedisStore keeps scenes and attachment blobs in Redis. The scene payload
// and its fingerprint live under separate keys; conditional writes are
// implemented as a WATCH on the fingerprint key followed by a transactional
// pipeline, so a concurrent writer aborts the transaction instead of being
// silently overwritten.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func sceneDataKey(roomID string) string    { return "scene:" + roomID }
func sceneVersionKey(roomID string) string { return "scene:ver:" + roomID }
func blobDataKey(prefix, id string) string { return "file:" + prefix + ":" + id }

func (s *RedisStore) GetScene(ctx context.Context, roomID string) (*StoredScene, error) {
	payload, err := s.rdb.Get(ctx, sceneDataKey(roomID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	ver, err := s.rdb.Get(ctx, sceneVersionKey(roomID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	var fp uint64
	if ver != "" {
		fp, err = strconv.ParseUint(ver, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid stored fingerprint %q: %w", ver, err)
		}
	}

	return &StoredScene{Fingerprint: fp, Payload: payload}, nil
}

func (s *RedisStore) PutScene(ctx context.Context, roomID string, sc *StoredScene, expected uint64) error {
	verKey := sceneVersionKey(roomID)
	dataKey := sceneDataKey(roomID)

	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, verKey).Uint64()
		if errors.Is(err, redis.Nil) {
			cur = 0
		} else if err != nil {
			return err
		}

		if cur != expected {
			return common.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, dataKey, sc.Payload, 0)
			pipe.Set(ctx, verKey, strconv.FormatUint(sc.Fingerprint, 10), 0)
			return nil
		})
		return err
	}

	err := s.rdb.Watch(ctx, txf, verKey)
	if errors.Is(err, redis.TxFailedErr) {
		// Another writer touched the version key between WATCH and EXEC.
		return common.ErrVersionConflict
	}
	if errors.Is(err, common.ErrVersionConflict) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	return nil
}

func (s *RedisStore) PutBlob(ctx context.Context, prefix, id string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := blobDataKey(prefix, id)
	err := s.rdb.HSet(ctx, key, "data", data, "content_type", contentType).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	return nil
}

func (s *RedisStore) GetBlob(ctx context.Context, prefix, id string) (*BlobObject, error) {
	vals, err := s.rdb.HGetAll(ctx, blobDataKey(prefix, id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if len(vals) == 0 {
		return nil, common.ErrNotFound
	}

	return &BlobObject{
		Data:        []byte(vals["data"]),
		ContentType: vals["content_type"],
	}, nil
}
