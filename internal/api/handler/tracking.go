package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/alessandro-lagamba/yachai-server/internal/api/middleware"
	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/api/response"
	"github.com/alessandro-lagamba/yachai-server/internal/tracking"
)

// TrackingHandler handles sample recording and personalization insights.
type TrackingHandler struct {
	trackingService *tracking.Service
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *tracking.Service) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

// RecordSample handles POST /v1/me/samples.
func (h *TrackingHandler) RecordSample(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.SampleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	sample, err := h.trackingService.Record(r.Context(), userID, &input)
	if err != nil {
		writeTrackingError(w, r, err)
		return
	}
	response.Created(w, r, "/v1/me/samples/"+sample.ID, sample)
}

// ListSamples handles GET /v1/me/samples?metric=...&limit=...
func (h *TrackingHandler) ListSamples(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "metric", Message: "metric query parameter is required", Code: "REQUIRED"},
		})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.BadRequest(w, r, "validation failed", []models.FieldError{
				{Field: "limit", Message: "must be a non-negative integer"},
			})
			return
		}
		limit = parsed
	}

	list, err := h.trackingService.ListSamples(r.Context(), userID, metric, limit)
	if err != nil {
		writeTrackingError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, list)
}

// DeleteSample handles DELETE /v1/me/samples/{sampleId}.
func (h *TrackingHandler) DeleteSample(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	sampleID := chi.URLParam(r, "sampleId")
	if err := h.trackingService.DeleteSample(r.Context(), userID, sampleID); err != nil {
		writeTrackingError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

// GetRange handles GET /v1/me/insights/{metric}/range.
func (h *TrackingHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	h.insight(w, r, func(userID, metric string) (interface{}, error) {
		return h.trackingService.RangeFor(r.Context(), userID, metric)
	})
}

// GetPatterns handles GET /v1/me/insights/{metric}/patterns.
func (h *TrackingHandler) GetPatterns(w http.ResponseWriter, r *http.Request) {
	h.insight(w, r, func(userID, metric string) (interface{}, error) {
		return h.trackingService.Patterns(r.Context(), userID, metric)
	})
}

// GetThresholds handles GET /v1/me/insights/{metric}/thresholds.
func (h *TrackingHandler) GetThresholds(w http.ResponseWriter, r *http.Request) {
	h.insight(w, r, func(userID, metric string) (interface{}, error) {
		return h.trackingService.ThresholdsFor(r.Context(), userID, metric)
	})
}

// GetTrend handles GET /v1/me/insights/{metric}/trend.
func (h *TrackingHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	h.insight(w, r, func(userID, metric string) (interface{}, error) {
		return h.trackingService.Trend(r.Context(), userID, metric)
	})
}

// GetScore handles GET /v1/me/insights/{metric}/score.
func (h *TrackingHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	h.insight(w, r, func(userID, metric string) (interface{}, error) {
		return h.trackingService.Score(r.Context(), userID, metric)
	})
}

// insight factors the shared auth + metric-param handling of the insight
// endpoints.
func (h *TrackingHandler) insight(w http.ResponseWriter, r *http.Request, fn func(userID, metric string) (interface{}, error)) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	metric := chi.URLParam(r, "metric")
	data, err := fn(userID, metric)
	if err != nil {
		writeTrackingError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, data)
}

func writeTrackingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tracking.ErrUnknownMetric):
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "metric", Message: "unknown metric"},
		})
	case errors.Is(err, tracking.ErrInvalidValue):
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "value", Message: "must be between 0 and 100"},
		})
	case errors.Is(err, tracking.ErrSampleNotFound):
		response.NotFound(w, r, "sample")
	default:
		response.InternalError(w, r, "internal server error")
	}
}
