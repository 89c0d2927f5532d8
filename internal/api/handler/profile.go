package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alessandro-lagamba/yachai-server/internal/api/middleware"
	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/api/response"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

// ProfileHandler handles wellness profile endpoints.
type ProfileHandler struct {
	userService *user.Service
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService *user.Service) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// GetProfile handles GET /v1/me/profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, profile)
}

// UpsertProfile handles PUT /v1/me/profile - partial profile update.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.WellnessProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrors := validateProfileInput(&input); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	profile, err := h.userService.UpsertProfile(r.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, r, "user")
		case errors.Is(err, user.ErrInvalidSkinType):
			response.BadRequest(w, r, "validation failed", []models.FieldError{
				{Field: "skinType", Message: "unknown skin type"},
			})
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}
	response.JSON(w, r, http.StatusOK, profile)
}

func validateProfileInput(input *models.WellnessProfileInput) []models.FieldError {
	var fieldErrors []models.FieldError

	if input.Age != nil && (*input.Age < 13 || *input.Age > 120) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "age",
			Message: "must be between 13 and 120",
		})
	}
	if input.DailyCalorieTarget != nil && (*input.DailyCalorieTarget < 800 || *input.DailyCalorieTarget > 10000) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "dailyCalorieTarget",
			Message: "must be between 800 and 10000",
		})
	}
	return fieldErrors
}
