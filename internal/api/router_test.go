package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/api"
	"github.com/alessandro-lagamba/yachai-server/internal/auth"
	"github.com/alessandro-lagamba/yachai-server/internal/copilot"
	"github.com/alessandro-lagamba/yachai-server/internal/featureflags"
	"github.com/alessandro-lagamba/yachai-server/internal/journal"
	"github.com/alessandro-lagamba/yachai-server/internal/tracking"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

const (
	testSupabaseSecret = "router-test-supabase-secret"
	testProjectURL     = "https://testproj.supabase.co"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	userSvc := user.NewService(user.NewInMemoryRepository())
	flagSvc := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     logger,
	})
	trackingSvc := tracking.NewService(tracking.ServiceConfig{
		Repository: tracking.NewInMemoryRepository(),
		Profiles:   userSvc,
		Flags:      flagSvc,
		Logger:     logger,
	})
	journalSvc := journal.NewService(journal.ServiceConfig{
		Repository: journal.NewInMemoryRepository(),
		Flags:      flagSvc,
		Logger:     logger,
	})
	copilotSvc := copilot.NewService(copilot.ServiceConfig{
		Tracking: trackingSvc,
		Users:    userSvc,
		Flags:    flagSvc,
		Logger:   logger,
	})
	authSvc := auth.NewService(auth.ServiceConfig{
		Verifier: auth.NewSupabaseVerifier(auth.SupabaseVerifierConfig{
			JWTSecret:  testSupabaseSecret,
			ProjectURL: testProjectURL,
		}),
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "router-test-signing-key",
			Issuer:     "https://api.test.local",
			Audience:   "yachai-api",
		}),
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
		Users:       userSvc,
		Logger:      logger,
	})

	return api.NewRouter(api.RouterConfig{
		Version:            "test",
		BuildTime:          "now",
		Logger:             logger,
		AuthService:        authSvc,
		UserService:        userSvc,
		TrackingService:    trackingSvc,
		JournalService:     journalSvc,
		CopilotService:     copilotSvc,
		FeatureFlagService: flagSvc,
	})
}

func identityToken(t *testing.T, subject string) string {
	t.Helper()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    testProjectURL + "/auth/v1",
		Subject:   subject,
		Audience:  jwt.ClaimStrings{"authenticated"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSupabaseSecret))
	require.NoError(t, err)
	return token
}

// exchangeToken authenticates a fresh user and returns a bearer token.
func exchangeToken(t *testing.T, router http.Handler, subject string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"identityToken": identityToken(t, subject)})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair.AccessToken
}

func doJSON(router http.Handler, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, http.MethodGet, "/v1/ops/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_MeRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, http.MethodGet, "/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestRouter_TokenExchangeAndMe(t *testing.T) {
	router := newTestRouter(t)
	token := exchangeToken(t, router, "supa-router-1")

	rec := doJSON(router, http.MethodGet, "/v1/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"locale":"it-IT"`)
}

func TestRouter_SampleLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := exchangeToken(t, router, "supa-router-2")

	rec := doJSON(router, http.MethodPost, "/v1/me/samples", token, map[string]interface{}{
		"metric": "hydration",
		"value":  65,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Location"), "/v1/me/samples/smp_")

	rec = doJSON(router, http.MethodGet, "/v1/me/samples?metric=hydration", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)

	rec = doJSON(router, http.MethodDelete, fmt.Sprintf("/v1/me/samples/%s", list.Items[0].ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_InsightEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := exchangeToken(t, router, "supa-router-3")

	for _, v := range []float64{55, 60, 65, 70, 75} {
		rec := doJSON(router, http.MethodPost, "/v1/me/samples", token, map[string]interface{}{
			"metric": "hydration",
			"value":  v,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(router, http.MethodGet, "/v1/me/insights/hydration/range", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"personalized":true`)

	rec = doJSON(router, http.MethodGet, "/v1/me/insights/hydration/trend", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "media")

	rec = doJSON(router, http.MethodGet, "/v1/me/insights/charisma/range", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_JournalLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := exchangeToken(t, router, "supa-router-4")

	rec := doJSON(router, http.MethodPost, "/v1/me/journal", token, map[string]interface{}{
		"content": "Oggi giornata tranquilla.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var entry struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))

	rec = doJSON(router, http.MethodGet, "/v1/me/journal/"+entry.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodDelete, "/v1/me/journal/"+entry.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(router, http.MethodGet, "/v1/me/journal/"+entry.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_CopilotBriefing(t *testing.T) {
	router := newTestRouter(t)
	token := exchangeToken(t, router, "supa-router-5")

	rec := doJSON(router, http.MethodGet, "/v1/me/copilot/briefing", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"cards"`)
}

func TestRouter_AdminFeatureFlags(t *testing.T) {
	router := newTestRouter(t)
	token := exchangeToken(t, router, "supa-router-6")

	rec := doJSON(router, http.MethodPut, "/v1/admin/feature-flags", token, map[string]interface{}{
		"key":   featureflags.FlagDisableCoachMessage,
		"value": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(router, http.MethodGet, "/v1/admin/feature-flags", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), featureflags.FlagDisableCoachMessage)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, http.MethodGet, "/v1/ops/health", "", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
