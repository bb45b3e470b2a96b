package controllers

import (
	"errors"
	"log"
	"net/http"

	"pressroom/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ImageController struct {
	images *storage.Lazy
}

func NewImageController(images *storage.Lazy) *ImageController {
	return &ImageController{images: images}
}

// GetImage streams a stored image with its content type. Images never
// change once stored, so the response is marked immutable.
func (ic *ImageController) GetImage(c *gin.Context) {
	store, ready := ic.images.Get()
	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "Storage not available yet",
			"error":   storage.ErrNotReady.Error(),
		})
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid image ID",
			"error":   "ID must be a valid UUID",
		})
		return
	}

	rc, info, err := store.Open(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Image not found",
				"error":   "No image exists with the provided ID",
			})
			return
		}
		log.Printf("Error reading image %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to read image",
			"error":   err.Error(),
		})
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, nil)
}
