package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/api/response"
	"github.com/alessandro-lagamba/yachai-server/internal/featureflags"
)

// FeatureFlagsHandler handles feature flag admin endpoints.
type FeatureFlagsHandler struct {
	flagService *featureflags.Service
}

// NewFeatureFlagsHandler creates a new FeatureFlagsHandler.
func NewFeatureFlagsHandler(flagService *featureflags.Service) *FeatureFlagsHandler {
	return &FeatureFlagsHandler{flagService: flagService}
}

// flagUpdate is the request body for a flag upsert.
type flagUpdate struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// ListFlags handles GET /v1/admin/feature-flags.
func (h *FeatureFlagsHandler) ListFlags(w http.ResponseWriter, r *http.Request) {
	flags := h.flagService.GetAllFlags(r.Context())

	items := make([]featureflags.Flag, 0, len(flags))
	for _, f := range flags {
		items = append(items, *f)
	}
	response.JSON(w, r, http.StatusOK, map[string]interface{}{"items": items})
}

// UpsertFlag handles PUT /v1/admin/feature-flags.
func (h *FeatureFlagsHandler) UpsertFlag(w http.ResponseWriter, r *http.Request) {
	var input flagUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.Key == "" {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "key", Message: "key is required", Code: "REQUIRED"},
		})
		return
	}

	flag := &featureflags.Flag{Key: input.Key, Value: input.Value}
	if err := h.flagService.SetFlag(r.Context(), flag); err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, flag)
}

// InvalidateCache handles POST /v1/admin/feature-flags/invalidate.
func (h *FeatureFlagsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.flagService.InvalidateCache()
	response.NoContent(w, r)
}
