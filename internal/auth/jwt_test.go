package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/auth"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-signing-key",
		Issuer:     "https://api.test.local",
		Audience:   "yachai-api",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newJWTService()

	token, expiresAt, err := svc.GenerateAccessToken("usr_123")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(auth.AccessTokenExpiry), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_123", claims.UserID)
	assert.Equal(t, "usr_123", claims.Subject)
}

func TestJWTService_RejectsWrongKey(t *testing.T) {
	token, _, err := newJWTService().GenerateAccessToken("usr_123")
	require.NoError(t, err)

	other := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "different-key",
		Issuer:     "https://api.test.local",
		Audience:   "yachai-api",
	})
	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_RejectsWrongAudience(t *testing.T) {
	issuerSvc := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-signing-key",
		Issuer:     "https://api.test.local",
		Audience:   "other-api",
	})
	token, _, err := issuerSvc.GenerateAccessToken("usr_123")
	require.NoError(t, err)

	_, err = newJWTService().ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	// Sign an already-expired token with the same key and claims shape.
	now := time.Now()
	claims := auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://api.test.local",
			Subject:   "usr_123",
			Audience:  jwt.ClaimStrings{"yachai-api"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
		UserID: "usr_123",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = newJWTService().ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrAccessTokenExpired)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	a, err := auth.GenerateRefreshToken()
	require.NoError(t, err)
	b, err := auth.GenerateRefreshToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, auth.HashToken(a), auth.HashToken(b))
	// Hash is deterministic.
	assert.Equal(t, auth.HashToken(a), auth.HashToken(a))
}
