package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"pressroom/internal/models"
	"pressroom/internal/repository"
	"pressroom/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	imagesField   = "images"
	maxImageCount = 10
)

var errTooManyImages = fmt.Errorf("at most %d files are accepted in the '%s' field", maxImageCount, imagesField)

type ArticleController struct {
	repo   repository.ArticleRepository
	images *storage.Lazy
}

func NewArticleController(repo repository.ArticleRepository, images *storage.Lazy) *ArticleController {
	return &ArticleController{repo: repo, images: images}
}

// articleInput is the merged shape of both accepted bodies: multipart form
// (text fields plus file parts named "images") and the legacy JSON body
// with a single imageUrl. Nil pointers mean "field not provided".
type articleInput struct {
	Title    *string
	Content  *string
	Category *string
	ImageURL *string
	Files    []*multipart.FileHeader
}

type articleJSONRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	ImageURL *string `json:"imageUrl"`
}

// parseInput reads either body shape. It writes the error response itself
// and returns false when the request cannot proceed.
func (ac *ArticleController) parseInput(c *gin.Context) (*articleInput, bool) {
	input := &articleInput{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid multipart form",
				"error":   err.Error(),
			})
			return nil, false
		}

		formValue := func(key string) *string {
			if vals, ok := form.Value[key]; ok && len(vals) > 0 {
				return &vals[0]
			}
			return nil
		}
		input.Title = formValue("title")
		input.Content = formValue("content")
		input.Category = formValue("category")
		input.ImageURL = formValue("imageUrl")
		input.Files = form.File[imagesField]

		if len(input.Files) > maxImageCount {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Too many images",
				"error":   errTooManyImages.Error(),
			})
			return nil, false
		}
		for _, fh := range input.Files {
			if fh.Size > storage.MaxImageSize {
				c.JSON(http.StatusBadRequest, gin.H{
					"status":  "error",
					"message": "Image too large",
					"error":   fmt.Sprintf("file %q exceeds the 10 MiB limit", fh.Filename),
				})
				return nil, false
			}
			if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
				c.JSON(http.StatusUnsupportedMediaType, gin.H{
					"status":  "error",
					"message": "Only image uploads are accepted",
					"error":   fmt.Sprintf("file %q is not an image", fh.Filename),
				})
				return nil, false
			}
		}
		return input, true
	}

	var req articleJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return nil, false
	}
	input.Title = req.Title
	input.Content = req.Content
	input.Category = req.Category
	input.ImageURL = req.ImageURL
	return input, true
}

func provided(s *string) bool {
	return s != nil && *s != ""
}

// storeImages uploads every file concurrently and returns the new blob ids
// in the order the files arrived. Uploads that succeeded before another one
// failed are left behind as orphans; they are logged, not rolled back.
func (ac *ArticleController) storeImages(store storage.ImageStore, files []*multipart.FileHeader) ([]string, error) {
	ids := make([]string, len(files))
	errs := make([]error, len(files))

	// Uploads run on context.Background so a client disconnect does not
	// abandon half-written objects.
	ctx := context.Background()

	var wg sync.WaitGroup
	for i, fh := range files {
		wg.Add(1)
		go func(i int, fh *multipart.FileHeader) {
			defer wg.Done()
			f, err := fh.Open()
			if err != nil {
				errs[i] = fmt.Errorf("failed to open %q: %w", fh.Filename, err)
				return
			}
			defer f.Close()

			id, err := store.Save(ctx, f, fh.Size, fh.Header.Get("Content-Type"), fh.Filename)
			if err != nil {
				errs[i] = fmt.Errorf("failed to store %q: %w", fh.Filename, err)
				return
			}
			ids[i] = id
		}(i, fh)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			for _, id := range ids {
				if id != "" {
					log.Printf("Orphaned image %s left in storage after failed upload batch", id)
				}
			}
			return nil, err
		}
	}
	return ids, nil
}

// publicBaseURL is the prefix for composed image URLs: PUBLIC_BASE_URL when
// set, otherwise the scheme and host of the inbound request.
func publicBaseURL(c *gin.Context) string {
	if base := os.Getenv("PUBLIC_BASE_URL"); base != "" {
		return strings.TrimSuffix(base, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}

func composeImageURLs(base string, ids []string) []string {
	urls := make([]string, len(ids))
	for i, id := range ids {
		urls[i] = base + "/api/images/" + id
	}
	return urls
}

// CreateArticle handles POST /api/articles: multipart with up to 10 files
// in the "images" field, or JSON with the legacy single imageUrl.
func (ac *ArticleController) CreateArticle(c *gin.Context) {
	input, ok := ac.parseInput(c)
	if !ok {
		return
	}

	if !provided(input.Title) || !provided(input.Content) || !provided(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Fields title, content and category are required",
			"error":   fmt.Sprintf("send them as form fields or JSON; attach up to %d files in the '%s' multipart field", maxImageCount, imagesField),
		})
		return
	}

	imageIDs := []string{}
	imageURLs := []string{}
	if len(input.Files) > 0 {
		store, ready := ac.images.Get()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "error",
				"message": "Storage not available yet",
				"error":   storage.ErrNotReady.Error(),
			})
			return
		}
		ids, err := ac.storeImages(store, input.Files)
		if err != nil {
			log.Printf("Error storing images: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to store images",
				"error":   err.Error(),
			})
			return
		}
		imageIDs = ids
		imageURLs = composeImageURLs(publicBaseURL(c), ids)
	}

	article := &models.Article{
		Title:     *input.Title,
		Content:   *input.Content,
		Category:  *input.Category,
		ImageIDs:  imageIDs,
		ImageURLs: imageURLs,
	}
	if provided(input.ImageURL) {
		article.ImageURL = *input.ImageURL
	}

	if err := ac.repo.Create(article); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create article",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Article created successfully",
		"data":    article,
	})
}

// GetAllArticles handles GET /api/articles with an optional ?category filter.
func (ac *ArticleController) GetAllArticles(c *gin.Context) {
	articles, err := ac.repo.FindAll(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve articles",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, articles)
}

// GetArticlesByCategory handles GET /api/articles/category/:category.
func (ac *ArticleController) GetArticlesByCategory(c *gin.Context) {
	articles, err := ac.repo.FindAll(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve articles",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, articles)
}

// GetArticleByID handles GET /api/articles/:id.
func (ac *ArticleController) GetArticleByID(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	article, err := ac.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Article not found",
				"error":   "No article exists with the provided ID",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve article",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, article)
}

// UpdateArticle handles PUT /api/articles/:id. Scalar fields are overwritten
// only when provided; uploaded images are appended after the existing ones,
// never replacing them.
func (ac *ArticleController) UpdateArticle(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	input, ok := ac.parseInput(c)
	if !ok {
		return
	}

	article, err := ac.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Article not found",
				"error":   "No article exists with the provided ID",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve article",
			"error":   err.Error(),
		})
		return
	}

	if len(input.Files) > 0 {
		store, ready := ac.images.Get()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "error",
				"message": "Storage not available yet",
				"error":   storage.ErrNotReady.Error(),
			})
			return
		}
		ids, err := ac.storeImages(store, input.Files)
		if err != nil {
			log.Printf("Error storing images: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Failed to store images",
				"error":   err.Error(),
			})
			return
		}
		article.ImageIDs = append(article.ImageIDs, ids...)
		article.ImageURLs = append(article.ImageURLs, composeImageURLs(publicBaseURL(c), ids)...)
	}

	if provided(input.Title) {
		article.Title = *input.Title
	}
	if provided(input.Content) {
		article.Content = *input.Content
	}
	if provided(input.Category) {
		article.Category = *input.Category
	}
	if provided(input.ImageURL) {
		article.ImageURL = *input.ImageURL
	}

	if err := ac.repo.Update(article); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to update article",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article updated successfully",
		"data":    article,
	})
}

// DeleteArticle handles DELETE /api/articles/:id. Blob deletions are best
// effort; a failed one is logged and the record is removed regardless.
func (ac *ArticleController) DeleteArticle(c *gin.Context) {
	id, ok := parseArticleID(c)
	if !ok {
		return
	}

	article, err := ac.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Article not found",
				"error":   "No article exists with the provided ID",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to retrieve article",
			"error":   err.Error(),
		})
		return
	}

	if len(article.ImageIDs) > 0 {
		store, ready := ac.images.Get()
		if !ready {
			log.Printf("Storage not ready, leaving %d images of article %d behind", len(article.ImageIDs), id)
		} else {
			ctx := context.Background()
			for _, imageID := range article.ImageIDs {
				if err := store.Delete(ctx, imageID); err != nil {
					log.Printf("Failed to delete image %s of article %d: %v", imageID, id, err)
				}
			}
		}
	}

	if err := ac.repo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to delete article",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Article deleted successfully",
		"data":    nil,
	})
}

func parseArticleID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid article ID",
			"error":   "ID must be a valid positive integer",
		})
		return 0, false
	}
	return uint(id), true
}
