package tracking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/featureflags"
	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

// ProfileSource provides the wellness profile feeding range adjustments.
type ProfileSource interface {
	Get(ctx context.Context, userID string) (*user.User, error)
}

// ServiceConfig holds configuration for the tracking service.
type ServiceConfig struct {
	Repository Repository
	Profiles   ProfileSource
	Flags      *featureflags.Service // optional; enables cached-only range serving
	Logger     zerolog.Logger

	// HistoryWindow bounds how far back insights look (default: 180 days).
	HistoryWindow time.Duration

	// HistoryLimit caps the number of samples per insight (default: 500).
	HistoryLimit int
}

// Service provides sample recording and personalization insights.
type Service struct {
	repo          Repository
	profiles      ProfileSource
	flags         *featureflags.Service
	logger        zerolog.Logger
	historyWindow time.Duration
	historyLimit  int
}

// NewService creates a new tracking service.
func NewService(cfg ServiceConfig) *Service {
	historyWindow := cfg.HistoryWindow
	if historyWindow == 0 {
		historyWindow = 180 * 24 * time.Hour
	}
	historyLimit := cfg.HistoryLimit
	if historyLimit == 0 {
		historyLimit = 500
	}

	return &Service{
		repo:          cfg.Repository,
		profiles:      cfg.Profiles,
		flags:         cfg.Flags,
		logger:        cfg.Logger,
		historyWindow: historyWindow,
		historyLimit:  historyLimit,
	}
}

// Record validates and stores a new measurement.
func (s *Service) Record(ctx context.Context, userID string, input *models.SampleInput) (*models.Sample, error) {
	metric := strings.ToLower(strings.TrimSpace(input.Metric))
	if !knownMetric(metric) {
		return nil, ErrUnknownMetric
	}
	if input.Value < 0 || input.Value > 100 {
		return nil, ErrInvalidValue
	}

	recordedAt := time.Now()
	if input.RecordedAt != nil {
		recordedAt = input.RecordedAt.Time()
	}

	sample := &Sample{
		ID:         "smp_" + uuid.New().String()[:22],
		UserID:     userID,
		Metric:     metric,
		Value:      input.Value,
		RecordedAt: recordedAt,
	}
	if err := s.repo.Insert(ctx, sample); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("metric", metric).
		Float64("value", input.Value).
		Msg("sample recorded")

	return toAPISample(sample), nil
}

// ListSamples returns the user's recent samples for a metric.
func (s *Service) ListSamples(ctx context.Context, userID, metric string, limit int) (*models.SampleList, error) {
	if !knownMetric(metric) {
		return nil, ErrUnknownMetric
	}
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}

	samples, err := s.repo.List(ctx, userID, metric, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.Sample, len(samples))
	for i, smp := range samples {
		items[i] = *toAPISample(smp)
	}
	return &models.SampleList{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}, nil
}

// DeleteSample removes one of the user's samples.
func (s *Service) DeleteSample(ctx context.Context, userID, sampleID string) error {
	return s.repo.Delete(ctx, userID, sampleID)
}

// RangeFor computes the user's personalized range for a metric from the
// stored history and profile. When the cached-only flag is on, the
// worker-computed baseline snapshot is served instead, falling back to
// live computation if none has been stored yet.
func (s *Service) RangeFor(ctx context.Context, userID, metric string) (*models.RangeResponse, error) {
	if s.flags != nil && s.flags.IsCachedOnlyInsights(ctx) {
		if resp := s.baselineRange(ctx, userID, metric); resp != nil {
			return resp, nil
		}
	}

	values, err := s.history(ctx, userID, metric)
	if err != nil {
		return nil, err
	}

	profile, err := s.engineProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.RangeResponse{
		Metric:       metric,
		Personalized: len(values) >= personalization.MinHistoryForRange,
		SampleCount:  len(values),
		Range:        personalization.PersonalizedRange(metric, values, profile),
	}, nil
}

// Patterns runs the temporal pattern detectors over the stored history.
func (s *Service) Patterns(ctx context.Context, userID, metric string) (*models.PatternsResponse, error) {
	samples, err := s.windowedSamples(ctx, userID, metric)
	if err != nil {
		return nil, err
	}

	points := make([]personalization.Sample, len(samples))
	for i, smp := range samples {
		points[i] = personalization.Sample{Timestamp: smp.RecordedAt, Value: smp.Value}
	}

	patterns := personalization.DetectPatterns(metric, points)
	if patterns == nil {
		patterns = []personalization.Pattern{}
	}
	return &models.PatternsResponse{Metric: metric, Patterns: patterns}, nil
}

// ThresholdsFor compares the user's personalized thresholds with the
// metric defaults.
func (s *Service) ThresholdsFor(ctx context.Context, userID, metric string) (*personalization.AdaptiveThresholds, error) {
	values, err := s.history(ctx, userID, metric)
	if err != nil {
		return nil, err
	}

	profile, err := s.engineProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	th := personalization.Thresholds(metric, values, profile)
	return &th, nil
}

// Trend compares the latest measurement with the user's personal average.
func (s *Service) Trend(ctx context.Context, userID, metric string) (*models.TrendResponse, error) {
	samples, err := s.windowedSamples(ctx, userID, metric)
	if err != nil {
		return nil, err
	}

	values := sampleValues(samples)
	profile, err := s.engineProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	rng := personalization.PersonalizedRange(metric, values, profile)

	var current float64
	if len(samples) > 0 {
		// List returns newest first.
		current = samples[0].Value
	}

	return &models.TrendResponse{
		Metric:  metric,
		Current: current,
		Range:   rng,
		Message: personalization.TrendMessage(current, rng, values),
		InRange: personalization.InRange(current, rng, personalization.DefaultTolerance),
	}, nil
}

// Score reports how far the user's thresholds have drifted from the
// population defaults, in [0, 1].
func (s *Service) Score(ctx context.Context, userID, metric string) (*models.ScoreResponse, error) {
	values, err := s.history(ctx, userID, metric)
	if err != nil {
		return nil, err
	}

	return &models.ScoreResponse{
		Metric: metric,
		Score:  personalization.Score(metric, values),
	}, nil
}

// ComputeBaseline recomputes and persists the baseline snapshot for one
// user and metric. Called by the refresh worker.
func (s *Service) ComputeBaseline(ctx context.Context, userID, metric string) (*Baseline, error) {
	values, err := s.history(ctx, userID, metric)
	if err != nil {
		return nil, err
	}

	profile, err := s.engineProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	baseline := &Baseline{
		UserID:      userID,
		Metric:      metric,
		Range:       personalization.PersonalizedRange(metric, values, profile),
		SampleCount: len(values),
		ComputedAt:  time.Now(),
	}
	if err := s.repo.UpsertBaseline(ctx, baseline); err != nil {
		return nil, err
	}
	return baseline, nil
}

// Baseline returns the stored baseline snapshot for a user and metric.
func (s *Service) Baseline(ctx context.Context, userID, metric string) (*Baseline, error) {
	return s.repo.GetBaseline(ctx, userID, metric)
}

// baselineRange serves the stored snapshot as a range response. Returns
// nil when no baseline exists or the read fails, so the caller computes
// live instead.
func (s *Service) baselineRange(ctx context.Context, userID, metric string) *models.RangeResponse {
	baseline, err := s.repo.GetBaseline(ctx, userID, metric)
	if err != nil {
		if !errors.Is(err, ErrSampleNotFound) {
			s.logger.Warn().
				Err(err).
				Str("metric", metric).
				Msg("baseline read failed, computing range live")
		}
		return nil
	}

	return &models.RangeResponse{
		Metric:       metric,
		Personalized: baseline.SampleCount >= personalization.MinHistoryForRange,
		SampleCount:  baseline.SampleCount,
		Range:        baseline.Range,
	}
}

func (s *Service) windowedSamples(ctx context.Context, userID, metric string) ([]*Sample, error) {
	if !knownMetric(metric) {
		return nil, ErrUnknownMetric
	}
	return s.repo.List(ctx, userID, metric, ListOptions{
		Since: time.Now().Add(-s.historyWindow),
		Limit: s.historyLimit,
	})
}

func (s *Service) history(ctx context.Context, userID, metric string) ([]float64, error) {
	samples, err := s.windowedSamples(ctx, userID, metric)
	if err != nil {
		return nil, err
	}
	return sampleValues(samples), nil
}

// engineProfile resolves the user's adjustment profile; a missing user
// degrades to no adjustments rather than failing the insight.
func (s *Service) engineProfile(ctx context.Context, userID string) (*personalization.Profile, error) {
	u, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u.EngineProfile(), nil
}

func sampleValues(samples []*Sample) []float64 {
	values := make([]float64, len(samples))
	for i, smp := range samples {
		values[i] = smp.Value
	}
	return values
}

func knownMetric(metric string) bool {
	for _, m := range personalization.AllMetrics() {
		if m == metric {
			return true
		}
	}
	return false
}

func toAPISample(s *Sample) *models.Sample {
	return &models.Sample{
		ID:         s.ID,
		Metric:     s.Metric,
		Value:      s.Value,
		RecordedAt: models.Timestamp(s.RecordedAt),
	}
}
