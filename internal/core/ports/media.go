package ports

import (
	"context"

	"vidtube/internal/core/domain"
)

// UploadResult is what the media backend reports for a stored object.
// Duration is only meaningful for video uploads and may be zero when the
// backend cannot probe it.
type UploadResult struct {
	Ref      domain.MediaRef
	Duration float64
}

// MediaStorage is the external collaborator that stores binary media and
// hands back durable references. Implementations must remove the local
// temporary file whether the remote upload succeeds or fails.
type MediaStorage interface {
	Upload(ctx context.Context, localPath string) (UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}
