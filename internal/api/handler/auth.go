package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alessandro-lagamba/yachai-server/internal/api/middleware"
	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/api/response"
	"github.com/alessandro-lagamba/yachai-server/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Exchange handles POST /v1/auth/token - exchange a Supabase identity
// token for first-party API tokens.
func (h *AuthHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var input models.TokenExchangeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.IdentityToken == "" {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "identityToken", Message: "identity token is required", Code: "REQUIRED"},
		})
		return
	}

	pair, err := h.authService.Exchange(r.Context(), &input)
	if err != nil {
		if auth.IsAuthError(err) {
			response.Unauthorized(w, r, "identity token could not be verified")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, pair)
}

// Refresh handles POST /v1/auth/refresh - rotate a refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var input models.RefreshInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.RefreshToken == "" {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "refreshToken", Message: "refresh token is required", Code: "REQUIRED"},
		})
		return
	}

	pair, err := h.authService.Refresh(r.Context(), input.RefreshToken)
	if err != nil {
		if auth.IsAuthError(err) {
			response.Unauthorized(w, r, "refresh token is invalid or expired")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, pair)
}

// Logout handles POST /v1/auth/logout - revoke one refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var input models.RefreshInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.RefreshToken != "" {
		if err := h.authService.Logout(r.Context(), input.RefreshToken); err != nil {
			response.InternalError(w, r, "internal server error")
			return
		}
	}
	response.NoContent(w, r)
}

// LogoutAll handles POST /v1/auth/logout-all - revoke all of the user's
// sessions.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	if err := h.authService.LogoutAll(r.Context(), userID); err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.NoContent(w, r)
}
