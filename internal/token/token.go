package token

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token is expired")
)

// defaultTTL follows the latest revision of the login flow; override with
// the TOKEN_TTL environment variable (Go duration syntax, e.g. "1h").
const defaultTTL = 24 * time.Hour

// Claims embeds the authenticated user id alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint `json:"user_id"`
}

// Service issues and verifies HMAC-signed bearer tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string) *Service {
	ttl := defaultTTL
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			ttl = parsed
		}
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

func NewServiceWithTTL(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token embedding userID, valid for the configured TTL.
func (s *Service) Issue(userID uint) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the embedded user id.
func (s *Service) Verify(tokenString string) (uint, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
