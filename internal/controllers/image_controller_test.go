package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pressroom/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupImageController(store storage.ImageStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	lazy := storage.NewLazy()
	if store != nil {
		lazy.Set(store)
	}
	controller := NewImageController(lazy)
	router.GET("/images/:id", controller.GetImage)

	return router
}

func TestGetImage(t *testing.T) {
	fake := newFakeImageStore()
	id, err := fake.Save(context.Background(), bytes.NewReader([]byte("png-bytes")), 9, "image/png", "pic.png")
	assert.NoError(t, err)

	router := setupImageController(fake)

	req := httptest.NewRequest(http.MethodGet, "/images/"+id, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
	assert.Equal(t, []byte("png-bytes"), w.Body.Bytes())
}

func TestGetImageNotFound(t *testing.T) {
	router := setupImageController(newFakeImageStore())

	req := httptest.NewRequest(http.MethodGet, "/images/6f1e3f1e-8f1f-4e8a-9d7b-0a1b2c3d4e5f", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetImageMalformedID(t *testing.T) {
	router := setupImageController(newFakeImageStore())

	req := httptest.NewRequest(http.MethodGet, "/images/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetImageStorageNotReady(t *testing.T) {
	router := setupImageController(nil)

	req := httptest.NewRequest(http.MethodGet, "/images/6f1e3f1e-8f1f-4e8a-9d7b-0a1b2c3d4e5f", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Storage not available yet")
}
