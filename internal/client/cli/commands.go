package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/scenesync/internal/collab"
	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/scene"
)

// readLocalScene loads the local scene file. A missing file is an empty
// scene, not an error.
func (a *App) readLocalScene() ([]scene.Element, error) {
	data, err := os.ReadFile(a.config.ScenePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var elements []scene.Element
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", a.config.ScenePath, err)
	}
	return elements, nil
}

func (a *App) writeLocalScene(elements []scene.Element) error {
	data, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(a.config.ScenePath, data, 0o600)
}

func (a *App) doLoad(ctx context.Context) {
	elements, err := a.sync.Load(ctx, a.session.RoomID, a.session.RoomKey, a.session)
	if err != nil {
		if errors.Is(err, common.ErrDecodeFailed) {
			fmt.Println("could not decrypt the scene; check the room passphrase")
			return
		}
		fmt.Printf("load error: %v\n", err)
		return
	}
	if elements == nil {
		fmt.Println("room has no saved scene yet")
		return
	}

	if err := a.writeLocalScene(elements); err != nil {
		fmt.Printf("writing %s: %v\n", a.config.ScenePath, err)
		return
	}
	fmt.Printf("loaded %d elements into %s\n", len(elements), a.config.ScenePath)
}

func (a *App) doSave(ctx context.Context) {
	local, err := a.readLocalScene()
	if err != nil {
		fmt.Printf("reading local scene: %v\n", err)
		return
	}

	merged, err := collab.SaveWithRetry(ctx, a.sync, a.session, local, scene.MergeContext{}, a.config.MaxRetries)
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			fmt.Println("save kept losing the version race; try again")
			return
		}
		fmt.Printf("save error: %v\n", err)
		return
	}
	if merged == nil {
		fmt.Println("already in sync, nothing to save")
		return
	}

	// Adopt the merged view so the next save starts from durable state.
	if err := a.writeLocalScene(merged); err != nil {
		fmt.Printf("writing %s: %v\n", a.config.ScenePath, err)
		return
	}
	fmt.Printf("saved, scene now has %d elements\n", len(merged))
}

func (a *App) doPush(ctx context.Context) {
	entries, err := os.ReadDir(a.config.FilesDir)
	if err != nil {
		fmt.Printf("reading %s: %v\n", a.config.FilesDir, err)
		return
	}

	var payloads []collab.AttachmentPayload
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(a.config.FilesDir, entry.Name()))
		if err != nil {
			fmt.Printf("reading %s: %v\n", entry.Name(), err)
			continue
		}
		sealed, err := scene.EncodeBlob(data, a.session.RoomKey)
		if err != nil {
			fmt.Printf("sealing %s: %v\n", entry.Name(), err)
			continue
		}
		payloads = append(payloads, collab.AttachmentPayload{ID: entry.Name(), Data: sealed})
	}
	if len(payloads) == 0 {
		fmt.Println("no files to push")
		return
	}

	saved, errored := a.attachments.SaveAttachments(ctx, a.blobPrefix(), payloads)
	fmt.Printf("pushed %d of %d files\n", len(saved), len(payloads))
	for _, id := range errored {
		fmt.Printf("  failed: %s\n", id)
	}
}

func (a *App) doPull(ctx context.Context) {
	elements, err := a.sync.Load(ctx, a.session.RoomID, a.session.RoomKey, a.session)
	if err != nil {
		fmt.Printf("load error: %v\n", err)
		return
	}

	var ids []string
	for _, e := range elements {
		if e.FileID != "" && !e.Deleted {
			ids = append(ids, e.FileID)
		}
	}
	if len(ids) == 0 {
		fmt.Println("scene references no attachments")
		return
	}

	if err := os.MkdirAll(a.config.FilesDir, 0o700); err != nil {
		fmt.Printf("creating %s: %v\n", a.config.FilesDir, err)
		return
	}

	loaded, errored := a.attachments.LoadAttachments(ctx, a.blobPrefix(), a.session.RoomKey, ids)
	for _, att := range loaded {
		path := filepath.Join(a.config.FilesDir, att.ID)
		if err := os.WriteFile(path, att.Data, 0o600); err != nil {
			fmt.Printf("writing %s: %v\n", path, err)
		}
	}
	fmt.Printf("pulled %d attachments into %s\n", len(loaded), a.config.FilesDir)
	for _, id := range errored {
		fmt.Printf("  failed: %s\n", id)
	}
}

func (a *App) doStatus() {
	local, err := a.readLocalScene()
	if err != nil {
		fmt.Printf("reading local scene: %v\n", err)
		return
	}

	if a.sync.IsSynced(a.session, local) {
		fmt.Printf("in sync (%d elements)\n", len(local))
	} else {
		fmt.Printf("local changes pending (%d elements)\n", len(local))
	}
}
