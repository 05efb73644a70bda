package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/scenesync/internal/common"
)

// Wire protocol headers shared with the storage server.
const (
	SceneVersionHeader = "X-Scene-Version"

	// ImmutableCacheControl is the cache hint set on attachment responses;
	// attachments are content-addressed and never change under a key.
	ImmutableCacheControl = "public, max-age=31536000, immutable"
)

// HTTPStore talks to the bundled storage server: conditional GET/PUT for
// scenes (ETag / If-Match) and plain per-item GET/PUT for attachment blobs.
type HTTPStore struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewHTTPStore builds a client for the storage server at baseURL. authToken
// may be empty; when set it is sent as a bearer token on every request.
func NewHTTPStore(baseURL, authToken string) *HTTPStore {
	return &HTTPStore{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *HTTPStore) sceneURL(roomID string) string {
	return fmt.Sprintf("%s/api/v2/scenes/%s", s.baseURL, roomID)
}

func (s *HTTPStore) blobURL(prefix, id string) string {
	return fmt.Sprintf("%s/api/v2/files/%s/%s", s.baseURL, prefix, id)
}

func (s *HTTPStore) do(req *http.Request) (*http.Response, error) {
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return resp, nil
}

func (s *HTTPStore) GetScene(ctx context.Context, roomID string) (*StoredScene, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sceneURL(roomID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, common.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, unexpectedStatus("fetch scene", resp)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading scene body: %w", err)
	}

	fp, err := parseVersionToken(resp.Header.Get("ETag"))
	if err != nil {
		return nil, fmt.Errorf("parsing scene version token: %w", err)
	}

	return &StoredScene{Fingerprint: fp, Payload: payload}, nil
}

func (s *HTTPStore) PutScene(ctx context.Context, roomID string, sc *StoredScene, expected uint64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.sceneURL(roomID), bytes.NewReader(sc.Payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(SceneVersionHeader, strconv.FormatUint(sc.Fingerprint, 10))
	req.Header.Set("If-Match", strconv.FormatUint(expected, 10))

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPreconditionFailed:
		return common.ErrVersionConflict
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return unexpectedStatus("store scene", resp)
	}

	return nil
}

func (s *HTTPStore) PutBlob(ctx context.Context, prefix, id string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.blobURL(prefix, id), bytes.NewReader(data))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return unexpectedStatus("store blob", resp)
	}

	return nil
}

func (s *HTTPStore) GetBlob(ctx context.Context, prefix, id string) (*BlobObject, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.blobURL(prefix, id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, common.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, unexpectedStatus("fetch blob", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading blob body: %w", err)
	}

	return &BlobObject{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

func unexpectedStatus(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: status=%d body=%s", op, resp.StatusCode, string(b))
}

func parseVersionToken(etag string) (uint64, error) {
	etag = strings.Trim(etag, `"`)
	if etag == "" {
		return 0, nil
	}
	return strconv.ParseUint(etag, 10, 64)
}
