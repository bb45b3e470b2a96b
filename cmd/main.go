package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"pressroom/database"
	"pressroom/internal/cache"
	"pressroom/internal/controllers"
	"pressroom/internal/repository"
	"pressroom/internal/storage"
	"pressroom/internal/token"
	"pressroom/internal/utils"
	"pressroom/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Redis is optional; without REDIS_URL the article repository reads
	// straight from Postgres.
	redisClient, err := cache.NewRedisClient()
	if err != nil {
		log.Printf("Warning: Redis unavailable, running without cache: %v", err)
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(database.DB)
	var articleRepo repository.ArticleRepository
	if redisClient != nil {
		articleRepo = repository.NewCachedArticleRepository(database.DB, redisClient)
		log.Println("Article cache enabled")
	} else {
		articleRepo = repository.NewArticleRepository(database.DB)
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET_KEY is required")
	}
	tokens := token.NewService(jwtSecret)

	// The image store is dialed in the background; requests that need it
	// before it is ready get a 503 from the Lazy holder.
	imageStore := storage.NewLazy()
	utils.Go("image store init", func() {
		initImageStore(imageStore)
	})

	authController := controllers.NewAuthController(userRepo, tokens)
	articleController := controllers.NewArticleController(articleRepo, imageStore)
	imageController := controllers.NewImageController(imageStore)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		_, storageReady := imageStore.Get()
		c.JSON(http.StatusOK, gin.H{
			"message": "Pressroom API is running",
			"version": "1.0.0",
			"status":  "healthy",
			"storage": storageReady,
		})
	})

	api := router.Group("/api")
	routes.RegisterAuthRoutes(api, authController)
	routes.RegisterArticleRoutes(api, articleController, tokens)
	routes.RegisterImageRoutes(api, imageController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Server starting on port %s", port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initImageStore(holder *storage.Lazy) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "images"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: os.Getenv("MINIO_USE_SSL") == "true",
	})
	if err != nil {
		log.Printf("Failed to create storage client: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.NewMinioStore(ctx, client, bucket)
	if err != nil {
		log.Printf("Failed to initialize image store: %v", err)
		return
	}

	holder.Set(store)
	log.Printf("Image store ready (bucket %q)", bucket)
}
