package repository

import (
	"errors"

	"pressroom/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrUsernameTaken signals a registration attempt with an existing username.
var ErrUsernameTaken = errors.New("username already taken")

const bcryptCost = 10

type UserRepository interface {
	CreateUser(username, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (ur *userRepository) CreateUser(username, password string) (*models.User, error) {
	var existing models.User
	err := ur.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
	}
	if err := ur.db.Create(user).Error; err != nil {
		// The unique index is the real guard; the pre-check above only
		// makes the common case report cleanly.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return user, nil
}

func (ur *userRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := ur.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (ur *userRepository) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
