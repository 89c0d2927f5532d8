package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/auth"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

const (
	testSupabaseSecret = "supabase-test-secret"
	testProjectURL     = "https://testproj.supabase.co"
)

func identityToken(t *testing.T, subject string, expiresIn time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    testProjectURL + "/auth/v1",
		Subject:   subject,
		Audience:  jwt.ClaimStrings{"authenticated"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSupabaseSecret))
	require.NoError(t, err)
	return token
}

func newAuthService(t *testing.T) (*auth.Service, *user.Service) {
	t.Helper()

	userSvc := user.NewService(user.NewInMemoryRepository())
	svc := auth.NewService(auth.ServiceConfig{
		Verifier: auth.NewSupabaseVerifier(auth.SupabaseVerifierConfig{
			JWTSecret:  testSupabaseSecret,
			ProjectURL: testProjectURL,
		}),
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "api-signing-key",
			Issuer:     "https://api.test.local",
			Audience:   "yachai-api",
		}),
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
		Users:       userSvc,
		Logger:      zerolog.Nop(),
	})
	return svc, userSvc
}

func TestService_Exchange_ProvisionsUserAndIssuesTokens(t *testing.T) {
	svc, userSvc := newAuthService(t)
	ctx := context.Background()

	pair, err := svc.Exchange(ctx, &models.TokenExchangeInput{
		IdentityToken: identityToken(t, "supa-sub-1", time.Hour),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Contains(t, pair.UserID, "usr_")

	// Access token round-trips.
	userID, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, pair.UserID, userID)

	// Local user exists.
	u, err := userSvc.Get(ctx, pair.UserID)
	require.NoError(t, err)
	assert.Equal(t, "supa-sub-1", u.ExternalSubject)
}

func TestService_Exchange_IdempotentPerSubject(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Exchange(ctx, &models.TokenExchangeInput{
		IdentityToken: identityToken(t, "supa-sub-2", time.Hour),
	})
	require.NoError(t, err)

	second, err := svc.Exchange(ctx, &models.TokenExchangeInput{
		IdentityToken: identityToken(t, "supa-sub-2", time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)
}

func TestService_Exchange_RejectsBadTokens(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Exchange(ctx, &models.TokenExchangeInput{IdentityToken: ""})
	assert.ErrorIs(t, err, auth.ErrInvalidIdentityToken)

	_, err = svc.Exchange(ctx, &models.TokenExchangeInput{IdentityToken: "not-a-jwt"})
	assert.ErrorIs(t, err, auth.ErrInvalidIdentityToken)

	_, err = svc.Exchange(ctx, &models.TokenExchangeInput{
		IdentityToken: identityToken(t, "supa-sub-3", -time.Hour),
	})
	assert.ErrorIs(t, err, auth.ErrInvalidIdentityToken)
}

func TestService_Exchange_RejectsWhenVerifierNotConfigured(t *testing.T) {
	userSvc := user.NewService(user.NewInMemoryRepository())
	svc := auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "api-signing-key",
		}),
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
		Users:       userSvc,
		Logger:      zerolog.Nop(),
	})

	_, err := svc.Exchange(context.Background(), &models.TokenExchangeInput{
		IdentityToken: identityToken(t, "supa-sub-9", time.Hour),
	})
	assert.ErrorIs(t, err, auth.ErrInvalidIdentityToken)
}

func TestService_Refresh_RotatesToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	pair, err := svc.Exchange(ctx, &models.TokenExchangeInput{
		IdentityToken: identityToken(t, "supa-sub-4", time.Hour),
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.UserID, rotated.UserID)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Old token is revoked by rotation.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestService_LogoutAll_RevokesEverySession(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	first, err := svc.Exchange(ctx, &models.TokenExchangeInput{
		IdentityToken: identityToken(t, "supa-sub-5", time.Hour),
	})
	require.NoError(t, err)
	second, err := svc.Exchange(ctx, &models.TokenExchangeInput{
		IdentityToken: identityToken(t, "supa-sub-5", time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, first.UserID))

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}
