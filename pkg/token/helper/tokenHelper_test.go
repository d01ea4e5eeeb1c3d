package helper

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/cu-events/events-api/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "failed to generate private key")
	user := &model.Identity{
		ID:       "a3c1d5c4-7f7a-4b9e-9a43-5f7d0f3c2b10",
		Email:    "email",
		Password: "pass",
	}

	token, err := GenerateAccessToken(user, key, 12)
	require.NoError(t, err)

	assert.Len(t, strings.Split(token, "."), 3)
	assert.NotContains(t, token, "pass")
}

func TestValidateAccessToken(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "failed to generate private key")
	user := &model.Identity{
		ID:       "a3c1d5c4-7f7a-4b9e-9a43-5f7d0f3c2b10",
		Email:    "email",
		Password: "pass",
	}

	token, err := GenerateAccessToken(user, privateKey, 12)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, &privateKey.PublicKey)
	require.NoError(t, err)

	assert.Equal(t, "email", claims.User.Email)
	assert.Equal(t, user.ID, claims.User.ID)
	assert.Empty(t, claims.User.Password, "want password to never be part of the token")
	assert.WithinDuration(t, time.Now().Add(12*time.Second), claims.ExpiresAt, 2*time.Second)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	_, err = ValidateAccessToken(token, &otherKey.PublicKey)
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	user := &model.Identity{ID: "a3c1d5c4-7f7a-4b9e-9a43-5f7d0f3c2b10"}

	secretKey := "secret"
	expiration := 12
	signedStringPrefix := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9."

	tokenData, err := GenerateRefreshToken(user, secretKey, expiration)
	require.NoError(t, err)

	assert.Equal(t, expiration, int(tokenData.ExpiresIn.Seconds()))
	assert.True(t, strings.HasPrefix(tokenData.SignedString, signedStringPrefix))
	assert.NotEmpty(t, tokenData.TokenId)
}

func TestValidateRefreshToken(t *testing.T) {
	user := &model.Identity{ID: "a3c1d5c4-7f7a-4b9e-9a43-5f7d0f3c2b10"}

	secretKey := "secret"

	expiration := 12

	tokenData, err := GenerateRefreshToken(user, secretKey, expiration)
	require.NoError(t, err)

	refreshTokenData, err := ValidateRefreshToken(tokenData.SignedString, secretKey)
	require.NoError(t, err)

	assert.Equal(t, user.ID, refreshTokenData.UserId)
	assert.Equal(t, tokenData.TokenId, refreshTokenData.ID)
	assert.WithinDuration(t, time.Unix(int64(expiration), 0), time.Unix(int64(refreshTokenData.ExpiresIn.Seconds()), 0), 1*time.Second)
	assert.WithinDuration(t, time.Now(), time.Unix(refreshTokenData.IssuedAt, 0), 1*time.Second)

	_, err = ValidateRefreshToken(tokenData.SignedString, "another secret")
	assert.Error(t, err)
}
