// Package handlers implements the storage server's HTTP surface:
// conditional GET/PUT of encrypted scene payloads and plain GET/PUT of
// attachment blobs. Bodies are opaque bytes end to end.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/scenesync/internal/common"
	"github.com/dmitrijs2005/scenesync/internal/logging"
	"github.com/dmitrijs2005/scenesync/internal/server/models"
	"github.com/dmitrijs2005/scenesync/internal/server/repositories/blobs"
	"github.com/dmitrijs2005/scenesync/internal/server/repositories/scenes"
	"github.com/dmitrijs2005/scenesync/internal/store"
)

type Handler struct {
	scenes scenes.Repository
	blobs  blobs.Repository
	log    logging.Logger

	// maxBodyBytes caps scene and blob payload sizes.
	maxBodyBytes int64
}

func New(sceneRepo scenes.Repository, blobRepo blobs.Repository, log logging.Logger, maxBodyBytes int64) *Handler {
	if log == nil {
		log = logging.NewDiscardLogger()
	}
	return &Handler{scenes: sceneRepo, blobs: blobRepo, log: log, maxBodyBytes: maxBodyBytes}
}

// Register mounts the API routes on the router group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/scenes/:roomID", h.GetScene)
	g.PUT("/scenes/:roomID", h.PutScene)
	g.GET("/files/:prefix/:id", h.GetBlob)
	g.PUT("/files/:prefix/:id", h.PutBlob)
}

func (h *Handler) GetScene(c *gin.Context) {
	roomID := c.Param("roomID")

	rec, err := h.scenes.Get(c.Request.Context(), roomID)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "scene not found"})
		return
	}
	if err != nil {
		h.fail(c, "fetching scene", err)
		return
	}

	c.Header("ETag", fmt.Sprintf("%q", strconv.FormatUint(rec.Fingerprint, 10)))
	c.Data(http.StatusOK, "application/octet-stream", rec.Payload)
}

func (h *Handler) PutScene(c *gin.Context) {
	roomID := c.Param("roomID")

	fp, err := strconv.ParseUint(c.GetHeader(store.SceneVersionHeader), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid " + store.SceneVersionHeader + " header"})
		return
	}

	// If-Match carries the fingerprint the writer believes is current;
	// absent means "the room must not exist yet".
	var expected uint64
	if raw := c.GetHeader("If-Match"); raw != "" {
		expected, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid If-Match header"})
			return
		}
	}

	payload, err := h.readBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading body: " + err.Error()})
		return
	}

	rec := &models.SceneRecord{RoomID: roomID, Fingerprint: fp, Payload: payload}
	err = h.scenes.Upsert(c.Request.Context(), rec, expected)
	if errors.Is(err, common.ErrVersionConflict) {
		h.log.Warn(c.Request.Context(), "rejected stale scene write", "room_id", roomID, "expected", expected)
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "scene version changed"})
		return
	}
	if err != nil {
		h.fail(c, "storing scene", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": roomID, "version": strconv.FormatUint(fp, 10)})
}

func (h *Handler) GetBlob(c *gin.Context) {
	key := blobStorageKey(c.Param("prefix"), c.Param("id"))

	rec, err := h.blobs.Get(c.Request.Context(), key)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}
	if err != nil {
		h.fail(c, "fetching blob", err)
		return
	}

	contentType := rec.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Cache-Control", store.ImmutableCacheControl)
	c.Data(http.StatusOK, contentType, rec.Data)
}

func (h *Handler) PutBlob(c *gin.Context) {
	key := blobStorageKey(c.Param("prefix"), c.Param("id"))

	data, err := h.readBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reading body: " + err.Error()})
		return
	}

	rec := &models.BlobRecord{
		Key:         key,
		ContentType: c.ContentType(),
		Data:        data,
	}
	if err := h.blobs.Put(c.Request.Context(), rec); err != nil {
		h.fail(c, "storing blob", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *Handler) readBody(c *gin.Context) ([]byte, error) {
	r := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	return io.ReadAll(r)
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.log.Error(c.Request.Context(), op+" failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func blobStorageKey(prefix, id string) string {
	return prefix + "/" + id
}
