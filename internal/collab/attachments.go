package collab

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/scenesync/internal/logging"
	"github.com/dmitrijs2005/scenesync/internal/scene"
	"github.com/dmitrijs2005/scenesync/internal/store"
)

const defaultMimeType = "application/octet-stream"

// AttachmentPayload is one binary attachment ready for upload. Data is
// expected to be an already-sealed blob envelope; the store never sees
// plaintext.
type AttachmentPayload struct {
	ID   string
	Data []byte
}

// AttachmentSync uploads and downloads immutable attachment blobs, fully
// independent of the scene save cycle. Batches are best effort with per-item
// failure: every item is attempted concurrently, siblings are never canceled
// by one failure, and partial success is reported rather than masked.
type AttachmentSync struct {
	blobs store.BlobStore
	log   logging.Logger
	now   func() time.Time
}

func NewAttachmentSync(blobs store.BlobStore, log logging.Logger) *AttachmentSync {
	if log == nil {
		log = logging.NewDiscardLogger()
	}
	return &AttachmentSync{blobs: blobs, log: log, now: time.Now}
}

// SaveAttachments writes every item to the blob store under (prefix, id) and
// reports per-item outcomes. There is no ordering guarantee and no atomicity
// across the batch.
func (a *AttachmentSync) SaveAttachments(ctx context.Context, prefix string, items []AttachmentPayload) (saved, errored []string) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, item := range items {
		wg.Add(1)
		go func(item AttachmentPayload) {
			defer wg.Done()

			err := a.blobs.PutBlob(ctx, prefix, item.ID, item.Data, defaultMimeType)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.log.Warn(ctx, "attachment upload failed", "id", item.ID, "error", err)
				errored = append(errored, item.ID)
				return
			}
			saved = append(saved, item.ID)
		}(item)
	}

	wg.Wait()
	return saved, errored
}

// LoadAttachments fetches the given attachment ids concurrently, opens each
// blob with the decryption key and reconstructs Attachment values. Duplicate
// ids are fetched once; per-id failures land in errored and never abort
// sibling fetches.
func (a *AttachmentSync) LoadAttachments(ctx context.Context, prefix string, key []byte, ids []string) (loaded []scene.Attachment, errored []string) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, id := range dedupe(ids) {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			att, err := a.loadOne(ctx, prefix, key, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.log.Warn(ctx, "attachment fetch failed", "id", id, "error", err)
				errored = append(errored, id)
				return
			}
			loaded = append(loaded, *att)
		}(id)
	}

	wg.Wait()
	return loaded, errored
}

func (a *AttachmentSync) loadOne(ctx context.Context, prefix string, key []byte, id string) (*scene.Attachment, error) {
	obj, err := a.blobs.GetBlob(ctx, prefix, id)
	if err != nil {
		return nil, err
	}

	data, err := scene.DecodeBlob(obj.Data, key)
	if err != nil {
		return nil, err
	}

	mimeType := obj.ContentType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	now := a.now()
	return &scene.Attachment{
		ID:            id,
		Data:          data,
		MimeType:      mimeType,
		Created:       now,
		LastRetrieved: now,
	}, nil
}

// dedupe preserves first-occurrence order; duplicate fetches are wasted work
// since blobs are immutable.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
