package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

type fakeObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// fakeMinioAPI substitutes for a running MinIO server in unit tests.
type fakeMinioAPI struct {
	mu           sync.Mutex
	buckets      map[string]bool
	objects      map[string]fakeObject
	putErr       error
	bucketExists bool
}

func newFakeMinioAPI() *fakeMinioAPI {
	return &fakeMinioAPI{
		buckets: make(map[string]bool),
		objects: make(map[string]fakeObject),
	}
}

func (f *fakeMinioAPI) BucketExists(_ context.Context, bucketName string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bucketExists || f.buckets[bucketName], nil
}

func (f *fakeMinioAPI) MakeBucket(_ context.Context, bucketName string, _ minio.MakeBucketOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[bucketName] = true
	return nil
}

func (f *fakeMinioAPI) PutObject(_ context.Context, _, objectName string, reader io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = fakeObject{
		data:        data,
		contentType: opts.ContentType,
		metadata:    opts.UserMetadata,
	}
	return minio.UploadInfo{Key: objectName, Size: int64(len(data))}, nil
}

func (f *fakeMinioAPI) GetObject(_ context.Context, _, objectName string, _ minio.GetObjectOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[objectName]
	if !ok {
		return nil, noSuchKeyErr()
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (f *fakeMinioAPI) RemoveObject(_ context.Context, _, objectName string, _ minio.RemoveObjectOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectName)
	return nil
}

func (f *fakeMinioAPI) StatObject(_ context.Context, _, objectName string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[objectName]
	if !ok {
		return minio.ObjectInfo{}, noSuchKeyErr()
	}
	return minio.ObjectInfo{
		Key:          objectName,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		UserMetadata: obj.metadata,
	}, nil
}

func noSuchKeyErr() error {
	return minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
}

func TestMinioStoreSaveAndOpen(t *testing.T) {
	api := newFakeMinioAPI()
	store, err := newMinioStoreWithAPI(context.Background(), api, "images")
	assert.NoError(t, err)
	assert.True(t, api.buckets["images"], "bucket should be created when missing")

	id, err := store.Save(context.Background(), bytes.NewReader([]byte("payload")), 7, "image/png", "pic.png")
	assert.NoError(t, err)
	assert.NotEmpty(t, id)

	rc, info, err := store.Open(context.Background(), id)
	assert.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	assert.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, "image/png", info.ContentType)
	assert.Equal(t, "pic.png", info.OriginalName)
	assert.Equal(t, int64(7), info.Size)
}

func TestMinioStoreDistinctIDs(t *testing.T) {
	api := newFakeMinioAPI()
	store, err := newMinioStoreWithAPI(context.Background(), api, "images")
	assert.NoError(t, err)

	id1, err := store.Save(context.Background(), bytes.NewReader([]byte("a")), 1, "image/png", "a.png")
	assert.NoError(t, err)
	id2, err := store.Save(context.Background(), bytes.NewReader([]byte("b")), 1, "image/png", "b.png")
	assert.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestMinioStoreOpenMissing(t *testing.T) {
	api := newFakeMinioAPI()
	store, err := newMinioStoreWithAPI(context.Background(), api, "images")
	assert.NoError(t, err)

	_, _, err = store.Open(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMinioStoreDeleteThenOpen(t *testing.T) {
	api := newFakeMinioAPI()
	store, err := newMinioStoreWithAPI(context.Background(), api, "images")
	assert.NoError(t, err)

	id, err := store.Save(context.Background(), bytes.NewReader([]byte("x")), 1, "image/png", "x.png")
	assert.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), id))

	_, _, err = store.Open(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMinioStoreRejectsNonImage(t *testing.T) {
	api := newFakeMinioAPI()
	store, err := newMinioStoreWithAPI(context.Background(), api, "images")
	assert.NoError(t, err)

	_, err = store.Save(context.Background(), bytes.NewReader([]byte("%PDF")), 4, "application/pdf", "doc.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
	assert.Empty(t, api.objects)
}

func TestMinioStoreRejectsOversizedImage(t *testing.T) {
	api := newFakeMinioAPI()
	store, err := newMinioStoreWithAPI(context.Background(), api, "images")
	assert.NoError(t, err)

	_, err = store.Save(context.Background(), bytes.NewReader([]byte("x")), MaxImageSize+1, "image/png", "huge.png")
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.Empty(t, api.objects)
}

func TestMinioStoreSaveError(t *testing.T) {
	api := newFakeMinioAPI()
	store, err := newMinioStoreWithAPI(context.Background(), api, "images")
	assert.NoError(t, err)

	api.putErr = errors.New("connection refused")
	_, err = store.Save(context.Background(), bytes.NewReader([]byte("x")), 1, "image/png", "x.png")
	assert.Error(t, err)
}
