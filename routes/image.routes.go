package routes

import (
	"pressroom/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterImageRoutes(api *gin.RouterGroup, imageController *controllers.ImageController) {
	api.GET("/images/:id", imageController.GetImage)
}
