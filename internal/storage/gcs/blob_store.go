// Package gcs archives raw fetched payloads in Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// BlobStore writes payloads into a GCS bucket and returns gs:// URIs.
type BlobStore struct {
	client *storage.Client
	bucket string
	logger *zap.Logger
}

// New initializes a GCS client and verifies the bucket is reachable, failing
// fast on startup when the configuration is wrong. Authentication uses
// Application Default Credentials.
func New(ctx context.Context, bucket string, logger *zap.Logger) (*BlobStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive.bucket is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		if cerr := client.Close(); cerr != nil {
			logger.Warn("close gcs client after failed bucket check", zap.Error(cerr))
		}
		return nil, fmt.Errorf("check gcs bucket %q: %w", bucket, err)
	}
	return &BlobStore{client: client, bucket: bucket, logger: logger}, nil
}

// PutObject uploads data under path and returns the object URI.
func (b *BlobStore) PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error) {
	w := b.client.Bucket(b.bucket).Object(path).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		if cerr := w.Close(); cerr != nil {
			b.logger.Warn("close gcs writer after failed write", zap.String("object", path), zap.Error(cerr))
		}
		return "", fmt.Errorf("write gcs object %s: %w", path, err)
	}
	// Close finalizes the upload and flushes buffered data.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close gcs writer for object %s: %w", path, err)
	}
	return fmt.Sprintf("gs://%s/%s", b.bucket, path), nil
}

// Close releases the underlying client.
func (b *BlobStore) Close() error {
	return b.client.Close()
}
