package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/scenesync/internal/common"
)

const fingerprintMetadataKey = "fingerprint"

// S3Config holds settings for an S3-compatible backend (AWS, MinIO, ...).
type S3Config struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// S3Store keeps scenes and attachment blobs in a single bucket: scenes under
// scenes/{roomID} with the fingerprint in object metadata, blobs under
// files/{prefix}/{id}.
//
// S3 offers no conditional write keyed on our own version token, so PutScene
// checks the current fingerprint with a HeadObject before writing. The
// check-then-put window is not atomic; it narrows the race the same way the
// HTTP backend's precondition closes it, but cannot eliminate it.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		// MinIO and most S3 clones require path-style addressing.
		o.UsePathStyle = cfg.BaseEndpoint != ""
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func sceneObjectKey(roomID string) string {
	return "scenes/" + roomID
}

func blobObjectKey(prefix, id string) string {
	return "files/" + prefix + "/" + id
}

func (s *S3Store) GetScene(ctx context.Context, roomID string) (*StoredScene, error) {
	key := sceneObjectKey(roomID)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer out.Body.Close()

	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading scene object: %w", err)
	}

	fp, err := fingerprintFromMetadata(out.Metadata)
	if err != nil {
		return nil, err
	}

	return &StoredScene{Fingerprint: fp, Payload: payload}, nil
}

func (s *S3Store) PutScene(ctx context.Context, roomID string, sc *StoredScene, expected uint64) error {
	key := sceneObjectKey(roomID)

	current, err := s.currentFingerprint(ctx, key)
	if err != nil {
		return err
	}
	if current != expected {
		return common.ErrVersionConflict
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(sc.Payload),
		ContentType: aws.String("application/octet-stream"),
		Metadata: map[string]string{
			fingerprintMetadataKey: strconv.FormatUint(sc.Fingerprint, 10),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	return nil
}

func (s *S3Store) currentFingerprint(ctx context.Context, key string) (uint64, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	return fingerprintFromMetadata(head.Metadata)
}

func (s *S3Store) PutBlob(ctx context.Context, prefix, id string, data []byte, contentType string) error {
	key := blobObjectKey(prefix, id)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       &s.bucket,
		Key:          &key,
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(ImmutableCacheControl),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	return nil
}

func (s *S3Store) GetBlob(ctx context.Context, prefix, id string) (*BlobObject, error) {
	key := blobObjectKey(prefix, id)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading blob object: %w", err)
	}

	return &BlobObject{Data: data, ContentType: aws.ToString(out.ContentType)}, nil
}

func fingerprintFromMetadata(md map[string]string) (uint64, error) {
	raw, ok := md[fingerprintMetadataKey]
	if !ok || raw == "" {
		return 0, nil
	}
	fp, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fingerprint metadata %q: %w", raw, err)
	}
	return fp, nil
}
