// Package media implements the media storage port on a MinIO (S3-compatible)
// bucket.
package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"vidtube/internal/core/domain"
	"vidtube/internal/core/ports"
	apperrors "vidtube/pkg/errors"
)

// Config holds the object storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// MinioAdapter stores uploaded files in a MinIO bucket and deletes the local
// temp file on both the success and failure path.
type MinioAdapter struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *zap.SugaredLogger
}

func NewMinioAdapter(cfg Config, logger *zap.SugaredLogger) (*MinioAdapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioAdapter{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger,
	}, nil
}

var _ ports.MediaStorage = (*MinioAdapter)(nil)

// Upload stores the file under a fresh object key. The local temp file is
// removed before returning, whatever the outcome.
func (a *MinioAdapter) Upload(ctx context.Context, localPath string) (ports.UploadResult, error) {
	if localPath == "" {
		return ports.UploadResult{}, apperrors.NewInvalidArgumentError("file path is missing")
	}
	defer func() {
		if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
			a.logger.Warnw("failed to remove temp file", "path", localPath, "error", err)
		}
	}()

	ext := filepath.Ext(localPath)
	objectKey := uuid.NewString() + ext
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := a.client.FPutObject(ctx, a.bucket, objectKey, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return ports.UploadResult{}, fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}

	a.logger.Debugw("uploaded media object", "bucket", a.bucket, "key", objectKey)
	return ports.UploadResult{
		Ref: domain.MediaRef{
			URL:      a.publicURL + "/" + a.bucket + "/" + objectKey,
			PublicID: objectKey,
		},
	}, nil
}

// Delete removes a stored object by its public ID.
func (a *MinioAdapter) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return apperrors.NewInvalidArgumentError("public ID is missing")
	}
	if err := a.client.RemoveObject(ctx, a.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", publicID, err)
	}
	a.logger.Debugw("deleted media object", "bucket", a.bucket, "key", publicID)
	return nil
}
