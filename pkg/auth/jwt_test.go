package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gametribe/backend/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("66f0a1b2c3d4e5f601234567", auth.RoleAdmin)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "66f0a1b2c3d4e5f601234567", claims.UserID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestValidateFailuresAreUniform(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"garbage":   "not-a-jwt",
		"truncated": "eyJhbGciOiJIUzI1NiJ9.e30",
	}
	for name, tok := range cases {
		_, err := auth.ValidateToken(tok)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, name)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	claims := auth.Claims{
		UserID: "66f0a1b2c3d4e5f601234567",
		Role:   auth.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	// Signed with the configured secret but already expired.
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("change-me-in-production"))
	require.NoError(t, err)

	_, err = auth.ValidateToken(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTamperedSignatureRejected(t *testing.T) {
	token, err := auth.GenerateToken("66f0a1b2c3d4e5f601234567", auth.RoleUser)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token + "x")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, auth.CheckPassword(hash, "hunter2hunter2"))
	assert.False(t, auth.CheckPassword(hash, "wrong-password"))
}
