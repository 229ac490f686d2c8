package jwt

import (
	"testing"

	"foodgram-backend/domain"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	service := NewJWTService()

	token := service.GenerateTokenUser(42)
	assert.NotEmpty(t, token)

	userID, err := service.GetUserIDByToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestTokenInvalid(t *testing.T) {
	service := NewJWTService()

	_, err := service.GetUserIDByToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	token := service.GenerateTokenUser(42)
	_, err = service.GetUserIDByToken(token + "tampered")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
