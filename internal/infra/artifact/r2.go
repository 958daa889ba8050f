package artifact

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/yogava/internal/domain/transcript"
)

// R2Store keeps artifacts in Cloudflare R2 (or any S3-compatible bucket).
type R2Store struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
	logger *slog.Logger
}

// NewR2Store constructs the storage adapter. ttl is advisory: it is recorded
// as the object's Expires header so a bucket lifecycle rule can sweep
// artifacts a crashed run never released.
func NewR2Store(endpoint, accessKey, secretKey, bucket, region string, ttl time.Duration, logger *slog.Logger) (*R2Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	return &R2Store{
		client: client,
		bucket: bucket,
		ttl:    ttl,
		logger: logger.With("component", "artifact.r2"),
	}, nil
}

func (s *R2Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return fmt.Errorf("ensure bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("artifact bucket created", "bucket", s.bucket)
	return nil
}

// Put uploads data as a single-part object.
func (s *R2Store) Put(ctx context.Context, key string, data []byte) (transcript.StoredArtifact, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return transcript.StoredArtifact{}, err
	}
	opts := minio.PutObjectOptions{
		ContentType:      "application/octet-stream",
		DisableMultipart: true,
	}
	var expires time.Time
	if s.ttl > 0 {
		expires = time.Now().Add(s.ttl).UTC()
		opts.Expires = expires
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return transcript.StoredArtifact{}, fmt.Errorf("put artifact %s: %w", key, err)
	}
	return transcript.StoredArtifact{Key: key, Size: info.Size, ExpiresAt: expires}, nil
}

// Delete removes an object.
func (s *R2Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete artifact %s: %w", key, err)
	}
	return nil
}

var _ transcript.ArtifactStore = (*R2Store)(nil)

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if host, _, found := strings.Cut(raw, "/"); found {
		return host
	}
	return raw
}
