package journal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/featureflags"
	"github.com/alessandro-lagamba/yachai-server/internal/insight"
)

// Reflector produces AI reflections on journal entries.
type Reflector interface {
	AnalyzeJournal(ctx context.Context, content string, mood *float64) (*insight.Reflection, error)
}

// ServiceConfig holds configuration for the journal service.
type ServiceConfig struct {
	Repository Repository
	Reflector  Reflector // optional; entries are stored without reflections when nil
	Flags      *featureflags.Service
	Logger     zerolog.Logger

	// ReflectionTimeout bounds the AI call per entry (default: 20 seconds).
	ReflectionTimeout time.Duration

	// ListLimit caps entries returned per page (default: 50).
	ListLimit int
}

// Service provides journal entry management.
type Service struct {
	repo              Repository
	reflector         Reflector
	flags             *featureflags.Service
	logger            zerolog.Logger
	reflectionTimeout time.Duration
	listLimit         int
}

// NewService creates a new journal service.
func NewService(cfg ServiceConfig) *Service {
	reflectionTimeout := cfg.ReflectionTimeout
	if reflectionTimeout == 0 {
		reflectionTimeout = 20 * time.Second
	}
	listLimit := cfg.ListLimit
	if listLimit == 0 {
		listLimit = 50
	}

	return &Service{
		repo:              cfg.Repository,
		reflector:         cfg.Reflector,
		flags:             cfg.Flags,
		logger:            cfg.Logger,
		reflectionTimeout: reflectionTimeout,
		listLimit:         listLimit,
	}
}

// Create validates and stores a new entry, then asks the AI provider for
// a reflection. The entry is kept even when the reflection fails; the
// client can re-fetch it later once a reflection lands.
func (s *Service) Create(ctx context.Context, userID string, input *models.JournalEntryInput) (*models.JournalEntry, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	entry := &Entry{
		ID:        "jrn_" + uuid.New().String()[:22],
		UserID:    userID,
		Content:   content,
		Mood:      input.Mood,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, err
	}

	if s.reflector != nil && !s.flags.IsJournalReflectionDisabled(ctx) {
		reflectCtx, cancel := context.WithTimeout(ctx, s.reflectionTimeout)
		defer cancel()

		reflection, err := s.reflector.AnalyzeJournal(reflectCtx, content, input.Mood)
		if err != nil {
			s.logger.Warn().Err(err).
				Str("entry_id", entry.ID).
				Msg("journal reflection failed, keeping entry without one")
		} else if err := s.repo.SetReflection(ctx, userID, entry.ID, reflection); err != nil {
			s.logger.Error().Err(err).
				Str("entry_id", entry.ID).
				Msg("failed to store journal reflection")
		} else {
			entry.Reflection = reflection
		}
	}

	return toAPIEntry(entry), nil
}

// Get retrieves one of the user's entries.
func (s *Service) Get(ctx context.Context, userID, entryID string) (*models.JournalEntry, error) {
	entry, err := s.repo.Get(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	return toAPIEntry(entry), nil
}

// List returns the user's entries, newest first.
func (s *Service) List(ctx context.Context, userID string, before time.Time, limit int) (*models.JournalEntryList, error) {
	if limit <= 0 || limit > s.listLimit {
		limit = s.listLimit
	}

	entries, err := s.repo.List(ctx, userID, ListOptions{Before: before, Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.JournalEntry, len(entries))
	for i, e := range entries {
		items[i] = *toAPIEntry(e)
	}
	return &models.JournalEntryList{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}, nil
}

// Delete removes one of the user's entries.
func (s *Service) Delete(ctx context.Context, userID, entryID string) error {
	return s.repo.Delete(ctx, userID, entryID)
}

func toAPIEntry(e *Entry) *models.JournalEntry {
	out := &models.JournalEntry{
		ID:        e.ID,
		Content:   e.Content,
		Mood:      e.Mood,
		CreatedAt: models.Timestamp(e.CreatedAt),
	}
	if e.Reflection != nil {
		out.Reflection = &models.JournalReflection{
			Summary:    e.Reflection.Summary,
			Themes:     e.Reflection.Themes,
			Suggestion: e.Reflection.Suggestion,
		}
	}
	return out
}
