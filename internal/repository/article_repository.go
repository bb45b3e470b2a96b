package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pressroom/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	articleCacheKeyPrefix = "article:"
	articleListCacheKey   = "articles:category:"
	cacheExpiration       = 30 * time.Minute
)

type ArticleRepository interface {
	Create(article *models.Article) error
	FindAll(category string) ([]models.Article, error)
	FindByID(id uint) (*models.Article, error)
	Update(article *models.Article) error
	Delete(id uint) error
}

type articleRepository struct {
	db    *gorm.DB
	redis *redis.Client
	ctx   context.Context
}

func getCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", articleCacheKeyPrefix, id)
}

func getListCacheKey(category string) string {
	return articleListCacheKey + category
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{
		db:    db,
		redis: nil,
		ctx:   context.Background(),
	}
}

// NewCachedArticleRepository layers a Redis read-through cache over article
// reads; entries are invalidated on every mutation.
func NewCachedArticleRepository(db *gorm.DB, redisClient *redis.Client) ArticleRepository {
	return &articleRepository{
		db:    db,
		redis: redisClient,
		ctx:   context.Background(),
	}
}

func (r *articleRepository) Create(article *models.Article) error {
	if err := r.db.Create(article).Error; err != nil {
		log.Printf("Error creating article: %v", err)
		return err
	}
	r.invalidateLists()
	return nil
}

// FindAll returns articles newest-first; an empty category means no filter.
func (r *articleRepository) FindAll(category string) ([]models.Article, error) {
	if r.redis != nil {
		cachedData, err := r.redis.Get(r.ctx, getListCacheKey(category)).Result()
		if err == nil {
			var articles []models.Article
			if err := json.Unmarshal([]byte(cachedData), &articles); err == nil {
				return articles, nil
			}
		}
	}

	query := r.db.Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var articles []models.Article
	if err := query.Find(&articles).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		articlesJSON, err := json.Marshal(articles)
		if err == nil {
			if err := r.redis.Set(r.ctx, getListCacheKey(category), articlesJSON, cacheExpiration).Err(); err != nil {
				log.Printf("Failed to cache article list: %v", err)
			}
		}
	}

	return articles, nil
}

func (r *articleRepository) FindByID(id uint) (*models.Article, error) {
	if r.redis != nil {
		cachedData, err := r.redis.Get(r.ctx, getCacheKey(id)).Result()
		if err == nil {
			var article models.Article
			if err := json.Unmarshal([]byte(cachedData), &article); err == nil {
				return &article, nil
			}
			log.Printf("Failed to unmarshal cached article: %v", err)
		}
	}

	var article models.Article
	if err := r.db.First(&article, id).Error; err != nil {
		return nil, err
	}

	if r.redis != nil {
		articleJSON, err := json.Marshal(article)
		if err == nil {
			if err := r.redis.Set(r.ctx, getCacheKey(id), articleJSON, cacheExpiration).Err(); err != nil {
				log.Printf("Failed to cache article ID %d: %v", id, err)
			}
		}
	}

	return &article, nil
}

func (r *articleRepository) Update(article *models.Article) error {
	if err := r.db.Save(article).Error; err != nil {
		return err
	}
	r.invalidate(article.ID)
	r.invalidateLists()
	return nil
}

func (r *articleRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Article{}, id).Error; err != nil {
		return err
	}
	r.invalidate(id)
	r.invalidateLists()
	return nil
}

func (r *articleRepository) invalidate(id uint) {
	if r.redis == nil {
		return
	}
	if err := r.redis.Del(r.ctx, getCacheKey(id)).Err(); err != nil {
		log.Printf("Failed to invalidate article cache: %v", err)
	}
}

func (r *articleRepository) invalidateLists() {
	if r.redis == nil {
		return
	}
	iter := r.redis.Scan(r.ctx, 0, articleListCacheKey+"*", 0).Iterator()
	for iter.Next(r.ctx) {
		if err := r.redis.Del(r.ctx, iter.Val()).Err(); err != nil {
			log.Printf("Failed to invalidate list cache %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("Failed to scan list cache keys: %v", err)
	}
}
