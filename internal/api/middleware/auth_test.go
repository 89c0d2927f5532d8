package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/api/middleware"
	"github.com/alessandro-lagamba/yachai-server/internal/auth"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

func newAuthStack(t *testing.T) (*auth.Service, string) {
	t.Helper()

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "middleware-test-key",
		Issuer:     "https://api.test.local",
		Audience:   "yachai-api",
	})
	svc := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
		Users:       user.NewService(user.NewInMemoryRepository()),
		Logger:      zerolog.Nop(),
	})

	token, _, err := jwtService.GenerateAccessToken("usr_mw")
	require.NoError(t, err)
	return svc, token
}

func protected(authService *auth.Service, captured *string) http.Handler {
	return middleware.Auth(authService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = middleware.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	svc, token := newAuthStack(t)

	var captured string
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(svc, &captured).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "usr_mw", captured)
}

func TestAuth_RejectsMissingHeader(t *testing.T) {
	svc, _ := newAuthStack(t)

	var captured string
	rec := httptest.NewRecorder()
	protected(svc, &captured).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Empty(t, captured)
}

func TestAuth_RejectsMalformedHeader(t *testing.T) {
	svc, token := newAuthStack(t)

	var captured string
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Basic "+token)
	rec := httptest.NewRecorder()
	protected(svc, &captured).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_RejectsTamperedToken(t *testing.T) {
	svc, token := newAuthStack(t)

	var captured string
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token+"tampered")
	rec := httptest.NewRecorder()
	protected(svc, &captured).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserID_EmptyWithoutAuth(t *testing.T) {
	assert.Empty(t, middleware.GetUserID(context.Background()))
}
