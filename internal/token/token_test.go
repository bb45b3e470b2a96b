package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewServiceWithTTL("test-secret", time.Hour)

	tokenString, err := svc.Issue(42)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	userID, err := svc.Verify(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewServiceWithTTL("test-secret", -time.Minute)

	tokenString, err := svc.Issue(42)
	assert.NoError(t, err)

	_, err = svc.Verify(tokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := NewServiceWithTTL("test-secret", time.Hour)

	tokenString, err := svc.Issue(42)
	assert.NoError(t, err)

	// Flip a character in the signature segment.
	tampered := tokenString[:len(tokenString)-2] + "xx"
	_, err = svc.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewServiceWithTTL("one-secret", time.Hour)
	verifier := NewServiceWithTTL("another-secret", time.Hour)

	tokenString, err := issuer.Issue(7)
	assert.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewServiceWithTTL("test-secret", time.Hour)

	_, err := svc.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
