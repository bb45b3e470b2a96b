package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

const originalNameKey = "Original-Name"

// minioAPI is the subset of *minio.Client the store uses; it exists so tests
// can substitute a fake without a running MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return w.c.GetObject(ctx, bucketName, objectName, opts)
}
func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}
func (w minioClientWrapper) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return w.c.StatObject(ctx, bucketName, objectName, opts)
}

var _ ImageStore = (*MinioStore)(nil)

// MinioStore keeps images in a single bucket, one object per image,
// content type and original filename in object metadata.
type MinioStore struct {
	api    minioAPI
	bucket string
}

// NewMinioStore wraps a real *minio.Client and ensures the bucket exists.
func NewMinioStore(ctx context.Context, client *minio.Client, bucket string) (*MinioStore, error) {
	return newMinioStoreWithAPI(ctx, minioClientWrapper{c: client}, bucket)
}

func newMinioStoreWithAPI(ctx context.Context, api minioAPI, bucket string) (*MinioStore, error) {
	s := &MinioStore{api: api, bucket: bucket}

	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return s, nil
}

// Save writes the image under a freshly generated id and returns it.
// Concurrent saves never conflict because every call gets its own key.
func (s *MinioStore) Save(ctx context.Context, r io.Reader, size int64, contentType, originalName string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrUnsupportedMedia
	}
	if size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	id := uuid.NewString()

	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{originalNameKey: originalName},
	}
	if _, err := s.api.PutObject(ctx, s.bucket, id, r, size, opts); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return id, nil
}

// Open returns a stream over the stored bytes plus the object metadata.
func (s *MinioStore) Open(ctx context.Context, id string) (io.ReadCloser, ObjectInfo, error) {
	stat, err := s.api.StatObject(ctx, s.bucket, id, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("failed to stat image: %w", err)
	}

	obj, err := s.api.GetObject(ctx, s.bucket, id, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("failed to get image: %w", err)
	}

	info := ObjectInfo{
		ID:           id,
		ContentType:  stat.ContentType,
		OriginalName: stat.UserMetadata[originalNameKey],
		Size:         stat.Size,
	}
	return obj, info, nil
}

// Delete removes the object. Callers treat failures as non-fatal.
func (s *MinioStore) Delete(ctx context.Context, id string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
