package collab

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/scene"
)

// SaveWithRetry runs the full load→reconcile→write cycle again whenever the
// store rejects a stale precondition, with exponential backoff between
// attempts. This is deliberately a caller-side policy: the sync core itself
// never retries anything.
func SaveWithRetry(ctx context.Context, s *SceneSync, sess *Session, local []scene.Element, mctx scene.MergeContext, maxRetries uint64) ([]scene.Element, error) {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(50*time.Millisecond))

	var merged []scene.Element
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, err := s.Save(ctx, sess, local, mctx)
		if errors.Is(err, common.ErrVersionConflict) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		merged = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	return merged, nil
}
