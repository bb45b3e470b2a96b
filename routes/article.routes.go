package routes

import (
	"pressroom/internal/controllers"
	"pressroom/internal/middleware"
	"pressroom/internal/token"

	"github.com/gin-gonic/gin"
)

func RegisterArticleRoutes(api *gin.RouterGroup, articleController *controllers.ArticleController, tokens *token.Service) {
	articleRoutes := api.Group("/articles")
	{
		articleRoutes.GET("", articleController.GetAllArticles)
		articleRoutes.GET("/category/:category", articleController.GetArticlesByCategory)
		articleRoutes.GET("/:id", articleController.GetArticleByID)
	}

	// Mutating routes require a valid bearer token.
	protectedRoutes := api.Group("/articles")
	protectedRoutes.Use(middleware.AuthMiddleware(tokens))
	{
		protectedRoutes.POST("", articleController.CreateArticle)
		protectedRoutes.PUT("/:id", articleController.UpdateArticle)
		protectedRoutes.DELETE("/:id", articleController.DeleteArticle)
	}
}
