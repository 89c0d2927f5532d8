package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alessandro-lagamba/yachai-server/internal/api/middleware"
	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/api/response"
	"github.com/alessandro-lagamba/yachai-server/internal/journal"
)

// JournalHandler handles journal entry endpoints.
type JournalHandler struct {
	journalService *journal.Service
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journalService *journal.Service) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// CreateEntry handles POST /v1/me/journal.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.JournalEntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.Mood != nil && (*input.Mood < 0 || *input.Mood > 100) {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "mood", Message: "must be between 0 and 100"},
		})
		return
	}

	entry, err := h.journalService.Create(r.Context(), userID, &input)
	if err != nil {
		writeJournalError(w, r, err)
		return
	}
	response.Created(w, r, "/v1/me/journal/"+entry.ID, entry)
}

// ListEntries handles GET /v1/me/journal?before=...&limit=...
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var before time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(w, r, "validation failed", []models.FieldError{
				{Field: "before", Message: "must be an RFC 3339 timestamp"},
			})
			return
		}
		before = parsed
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

	list, err := h.journalService.List(r.Context(), userID, before, limit)
	if err != nil {
		writeJournalError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, list)
}

// GetEntry handles GET /v1/me/journal/{entryId}.
func (h *JournalHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	entry, err := h.journalService.Get(r.Context(), userID, chi.URLParam(r, "entryId"))
	if err != nil {
		writeJournalError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, entry)
}

// DeleteEntry handles DELETE /v1/me/journal/{entryId}.
func (h *JournalHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	if err := h.journalService.Delete(r.Context(), userID, chi.URLParam(r, "entryId")); err != nil {
		writeJournalError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func writeJournalError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, journal.ErrEmptyContent):
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "content", Message: "content is required", Code: "REQUIRED"},
		})
	case errors.Is(err, journal.ErrContentTooLong):
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "content", Message: "content is too long"},
		})
	case errors.Is(err, journal.ErrEntryNotFound):
		response.NotFound(w, r, "journal entry")
	default:
		response.InternalError(w, r, "internal server error")
	}
}
