package storage

import (
	"context"
	"errors"
	"io"
)

// MaxImageSize is the per-file ceiling enforced by Save.
const MaxImageSize = 10 << 20 // 10 MiB

var (
	// ErrNotFound is returned when no object exists under the given id.
	ErrNotFound = errors.New("image not found")
	// ErrNotReady is returned by Lazy before the backing store is initialized.
	ErrNotReady = errors.New("storage not available yet")
	// ErrUnsupportedMedia is returned by Save for non-image content types.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrImageTooLarge is returned by Save when the content exceeds MaxImageSize.
	ErrImageTooLarge = errors.New("image exceeds size limit")
)

// ObjectInfo describes a stored image.
type ObjectInfo struct {
	ID           string
	ContentType  string
	OriginalName string
	Size         int64
}

// ImageStore is binary storage for uploaded images, keyed by generated id.
// Save accepts only image/* content up to MaxImageSize; the per-request file
// count limit is the caller's job.
type ImageStore interface {
	Save(ctx context.Context, r io.Reader, size int64, contentType, originalName string) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, id string) error
}
