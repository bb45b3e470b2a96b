package controllers

import (
	"errors"
	"log"
	"net/http"

	"pressroom/internal/repository"
	"pressroom/internal/token"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct {
	users  repository.UserRepository
	tokens *token.Service
}

func NewAuthController(users repository.UserRepository, tokens *token.Service) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user account.
func (ac *AuthController) Register(c *gin.Context) {
	var req credentialsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Username and password are required",
			"error":   err.Error(),
		})
		return
	}

	if _, err := ac.users.CreateUser(req.Username, req.Password); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": "Username already exists",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to register user",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User registered successfully",
		"data":    nil,
	})
}

// Login verifies credentials and returns a bearer token. Unknown usernames
// and wrong passwords report the same message so usernames cannot be probed.
func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Username and password are required",
			"error":   err.Error(),
		})
		return
	}

	user, err := ac.users.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid credentials",
				"error":   "Invalid credentials",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to log in",
			"error":   err.Error(),
		})
		return
	}

	if !ac.users.CheckPassword(user, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Invalid credentials",
			"error":   "Invalid credentials",
		})
		return
	}

	tokenString, err := ac.tokens.Issue(user.ID)
	if err != nil {
		log.Printf("Failed to issue token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to log in",
			"error":   "Token generation failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}
