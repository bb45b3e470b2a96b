package routes

import (
	"pressroom/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(api *gin.RouterGroup, authController *controllers.AuthController) {
	api.POST("/register", authController.Register)
	api.POST("/login", authController.Login)
}
