// Package copilot assembles the daily briefing: one card per tracked
// metric, detected patterns, and an optional AI coach message.
package copilot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/featureflags"
	"github.com/alessandro-lagamba/yachai-server/internal/insight"
	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
	"github.com/alessandro-lagamba/yachai-server/internal/tracking"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

// briefingMetrics are the metrics surfaced as cards, in display order.
var briefingMetrics = []string{
	personalization.MetricValence,
	personalization.MetricArousal,
	personalization.MetricHydration,
	personalization.MetricOverall,
}

// Chatter produces the optional coach message.
type Chatter interface {
	Chat(ctx context.Context, messages []insight.Message) (string, error)
}

// ServiceConfig holds configuration for the copilot service.
type ServiceConfig struct {
	Tracking *tracking.Service
	Users    *user.Service
	Chatter  Chatter // optional
	Flags    *featureflags.Service
	Logger   zerolog.Logger

	// ChatTimeout bounds the coach message call (default: 10 seconds).
	ChatTimeout time.Duration
}

// Service builds daily briefings.
type Service struct {
	tracking    *tracking.Service
	users       *user.Service
	chatter     Chatter
	flags       *featureflags.Service
	logger      zerolog.Logger
	chatTimeout time.Duration
}

// NewService creates a new copilot service.
func NewService(cfg ServiceConfig) *Service {
	chatTimeout := cfg.ChatTimeout
	if chatTimeout == 0 {
		chatTimeout = 10 * time.Second
	}

	return &Service{
		tracking:    cfg.Tracking,
		users:       cfg.Users,
		chatter:     cfg.Chatter,
		flags:       cfg.Flags,
		logger:      cfg.Logger,
		chatTimeout: chatTimeout,
	}
}

// DailyBriefing assembles the briefing for one user. Metric cards and
// patterns always come from the local engine; the coach message is
// best-effort and gated on the user's AI consent.
func (s *Service) DailyBriefing(ctx context.Context, userID string) (*models.Briefing, error) {
	briefing := &models.Briefing{
		GeneratedAt: models.Timestamp(time.Now()),
		Cards:       make([]models.MetricCard, 0, len(briefingMetrics)),
		Patterns:    []personalization.Pattern{},
	}

	for _, metric := range briefingMetrics {
		card, err := s.metricCard(ctx, userID, metric)
		if err != nil {
			return nil, fmt.Errorf("building card for %s: %w", metric, err)
		}
		briefing.Cards = append(briefing.Cards, *card)

		if !s.flags.IsPatternDetectionDisabled(ctx) {
			resp, err := s.tracking.Patterns(ctx, userID, metric)
			if err != nil {
				return nil, err
			}
			briefing.Patterns = append(briefing.Patterns, resp.Patterns...)
		}
	}

	if msg := s.coachMessage(ctx, userID, briefing); msg != "" {
		briefing.CoachMessage = msg
	}
	return briefing, nil
}

func (s *Service) metricCard(ctx context.Context, userID, metric string) (*models.MetricCard, error) {
	trend, err := s.tracking.Trend(ctx, userID, metric)
	if err != nil {
		return nil, err
	}

	card := &models.MetricCard{
		Metric: metric,
		Range:  trend.Range,
		Trend:  trend.Message,
		Band:   models.BandOptimal,
	}

	samples, err := s.tracking.ListSamples(ctx, userID, metric, 1)
	if err != nil {
		return nil, err
	}
	if len(samples.Items) == 0 {
		// No measurement yet: neutral card around the default range.
		return card, nil
	}

	current := samples.Items[0].Value
	card.Current = &current
	card.Band = bandFor(current, trend.Range)
	return card, nil
}

// bandFor classifies a value against a range: inside is OPTIMAL, within
// tolerance of the edges is ATTENTION, beyond that is CRITICAL.
func bandFor(value float64, r personalization.Range) models.ScoreBand {
	if value >= r.Min && value <= r.Max {
		return models.BandOptimal
	}
	if personalization.InRange(value, r, personalization.DefaultTolerance) {
		return models.BandAttention
	}
	return models.BandCritical
}

// coachMessage asks the AI provider for a short note summarizing the
// briefing. Failures degrade to an empty message.
func (s *Service) coachMessage(ctx context.Context, userID string, briefing *models.Briefing) string {
	if s.chatter == nil || s.flags.IsCoachMessageDisabled(ctx) {
		return ""
	}

	consents, err := s.users.GetConsents(ctx, userID)
	if err != nil || !consents.AIProcessing {
		return ""
	}

	chatCtx, cancel := context.WithTimeout(ctx, s.chatTimeout)
	defer cancel()

	msg, err := s.chatter.Chat(chatCtx, []insight.Message{
		{Role: "system", Content: coachPrompt},
		{Role: "user", Content: briefingSummary(briefing)},
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("coach message unavailable")
		return ""
	}
	return strings.TrimSpace(msg)
}

const coachPrompt = `Sei un coach del benessere. Ricevi lo stato odierno ` +
	`dell'utente e rispondi con UN solo messaggio motivazionale in italiano, ` +
	`massimo 2 frasi, concreto e gentile.`

// briefingSummary flattens the briefing into a compact prompt.
func briefingSummary(b *models.Briefing) string {
	var sb strings.Builder
	for _, card := range b.Cards {
		if card.Current == nil {
			fmt.Fprintf(&sb, "%s: nessuna misurazione.\n", card.Metric)
			continue
		}
		fmt.Fprintf(&sb, "%s: %.0f (%s, stato %s)\n", card.Metric, *card.Current, card.Trend, card.Band)
	}
	for _, p := range b.Patterns {
		sb.WriteString(p.Description + "\n")
	}
	return sb.String()
}
