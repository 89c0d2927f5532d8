package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
	"github.com/alessandro-lagamba/yachai-server/internal/tracking"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
)

// RefreshJob recomputes personalization baselines for all users.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger

	trackingService *tracking.Service
	userService     *user.Service

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRuns           int64
	SuccessfulRefreshes int64
	FailedRefreshes     int64
	PersonalizedCount   int64

	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config          RefreshConfig
	Logger          zerolog.Logger
	TrackingService *tracking.Service
	UserService     *user.Service
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.Metrics) == 0 {
		config.Metrics = DefaultRefreshConfig().Metrics
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &RefreshJob{
		config:          config,
		logger:          cfg.Logger,
		trackingService: cfg.TrackingService,
		userService:     cfg.UserService,
		metrics:         &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh run.
type RefreshResult struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	TotalTasks   int
	Successful   int
	Failed       int
	Personalized int
	Errors       []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	UserID string
	Metric string
	Error  string
}

type refreshTask struct {
	userID string
	metric string
}

type taskResult struct {
	task         refreshTask
	personalized bool
	err          error
}

// Run executes the refresh job for all users and configured metrics.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{StartTime: startTime}

	userIDs, err := j.listUsers(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to list users for refresh")
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		result.Errors = append(result.Errors, RefreshError{Error: err.Error()})
		j.updateMetrics(result)
		return result
	}

	result.TotalTasks = len(userIDs) * len(j.config.Metrics)

	j.logger.Info().
		Int("users", len(userIDs)).
		Int("metrics", len(j.config.Metrics)).
		Int("concurrency", j.config.Concurrency).
		Msg("starting baseline refresh job")

	tasksChan := make(chan refreshTask, result.TotalTasks)
	resultsChan := make(chan taskResult, result.TotalTasks)

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, tasksChan, resultsChan)
		}()
	}

	for _, userID := range userIDs {
		for _, metric := range j.config.Metrics {
			tasksChan <- refreshTask{userID: userID, metric: metric}
		}
	}
	close(tasksChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for tr := range resultsChan {
		if tr.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RefreshError{
				UserID: tr.task.userID,
				Metric: tr.task.metric,
				Error:  tr.err.Error(),
			})
			continue
		}
		result.Successful++
		if tr.personalized {
			result.Personalized++
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Int("personalized", result.Personalized).
		Msg("baseline refresh job completed")

	return result
}

func (j *RefreshJob) listUsers(ctx context.Context) ([]string, error) {
	userIDs, err := j.userService.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	if j.config.MaxUsers > 0 && len(userIDs) > j.config.MaxUsers {
		userIDs = userIDs[:j.config.MaxUsers]
	}
	return userIDs, nil
}

func (j *RefreshJob) refreshWorker(ctx context.Context, tasks <-chan refreshTask, results chan<- taskResult) {
	for task := range tasks {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.refreshOne(ctx, task)
		}
	}
}

func (j *RefreshJob) refreshOne(ctx context.Context, task refreshTask) taskResult {
	taskCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	baseline, err := j.trackingService.ComputeBaseline(taskCtx, task.userID, task.metric)
	if err != nil {
		return taskResult{task: task, err: err}
	}
	return taskResult{
		task:         task,
		personalized: baseline.SampleCount >= personalization.MinHistoryForRange,
	}
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulRefreshes += int64(result.Successful)
	j.metrics.FailedRefreshes += int64(result.Failed)
	j.metrics.PersonalizedCount += int64(result.Personalized)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRuns:           j.metrics.TotalRuns,
		SuccessfulRefreshes: j.metrics.SuccessfulRefreshes,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		PersonalizedCount:   j.metrics.PersonalizedCount,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":            m.TotalRuns,
		"successful_refreshes":  m.SuccessfulRefreshes,
		"failed_refreshes":      m.FailedRefreshes,
		"personalized_count":    m.PersonalizedCount,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
	}
}
