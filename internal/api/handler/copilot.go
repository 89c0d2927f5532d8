package handler

import (
	"net/http"

	"github.com/alessandro-lagamba/yachai-server/internal/api/middleware"
	"github.com/alessandro-lagamba/yachai-server/internal/api/response"
	"github.com/alessandro-lagamba/yachai-server/internal/copilot"
)

// CopilotHandler handles the daily briefing endpoint.
type CopilotHandler struct {
	copilotService *copilot.Service
}

// NewCopilotHandler creates a new CopilotHandler.
func NewCopilotHandler(copilotService *copilot.Service) *CopilotHandler {
	return &CopilotHandler{copilotService: copilotService}
}

// DailyBriefing handles GET /v1/me/copilot/briefing.
func (h *CopilotHandler) DailyBriefing(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	briefing, err := h.copilotService.DailyBriefing(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, briefing)
}
