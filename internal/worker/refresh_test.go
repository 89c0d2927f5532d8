package worker_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/api/models"
	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
	"github.com/alessandro-lagamba/yachai-server/internal/tracking"
	"github.com/alessandro-lagamba/yachai-server/internal/user"
	"github.com/alessandro-lagamba/yachai-server/internal/worker"
)

func TestDefaultRefreshConfig(t *testing.T) {
	cfg := worker.DefaultRefreshConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, personalization.AllMetrics(), cfg.Metrics)
}

func TestRefreshConfig_TotalTasks(t *testing.T) {
	cfg := worker.RefreshConfig{
		Metrics: []string{personalization.MetricHydration, personalization.MetricValence},
	}

	assert.Equal(t, 6, cfg.TotalTasks(3))

	cfg.MaxUsers = 2
	assert.Equal(t, 4, cfg.TotalTasks(3))
}

type fixture struct {
	job      *worker.RefreshJob
	tracking *tracking.Service
	users    *user.Service
}

func newFixture(t *testing.T, cfg worker.RefreshConfig) *fixture {
	t.Helper()

	userSvc := user.NewService(user.NewInMemoryRepository())
	trackingSvc := tracking.NewService(tracking.ServiceConfig{
		Repository: tracking.NewInMemoryRepository(),
		Profiles:   userSvc,
		Logger:     zerolog.Nop(),
	})

	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:          cfg,
		Logger:          zerolog.Nop(),
		TrackingService: trackingSvc,
		UserService:     userSvc,
	})
	return &fixture{job: job, tracking: trackingSvc, users: userSvc}
}

func (f *fixture) provision(t *testing.T, n int) []string {
	t.Helper()

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("usr_refresh%d", i)
		_, err := f.users.Provision(context.Background(), fmt.Sprintf("ext-%d", i), id, "it-IT")
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func (f *fixture) record(t *testing.T, userID, metric string, values ...float64) {
	t.Helper()

	for _, v := range values {
		_, err := f.tracking.Record(context.Background(), userID, &models.SampleInput{
			Metric: metric,
			Value:  v,
		})
		require.NoError(t, err)
	}
}

func TestRefreshJob_Run_NoUsers(t *testing.T) {
	f := newFixture(t, worker.RefreshConfig{})

	result := f.job.Run(context.Background())

	assert.Equal(t, 0, result.TotalTasks)
	assert.Equal(t, 0, result.Failed)
	assert.Greater(t, result.Duration, time.Duration(0))
}

func TestRefreshJob_Run_ComputesBaselines(t *testing.T) {
	f := newFixture(t, worker.RefreshConfig{
		Metrics:     []string{personalization.MetricHydration},
		Concurrency: 2,
	})
	ids := f.provision(t, 2)
	f.record(t, ids[0], personalization.MetricHydration, 55, 60, 65, 70, 75)

	result := f.job.Run(context.Background())

	assert.Equal(t, 2, result.TotalTasks)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 0, result.Failed)
	// Only the user with history gets a personalized baseline.
	assert.Equal(t, 1, result.Personalized)

	baseline, err := f.tracking.Baseline(context.Background(), ids[0], personalization.MetricHydration)
	require.NoError(t, err)
	assert.Equal(t, 5, baseline.SampleCount)
	assert.NotZero(t, baseline.ComputedAt)
}

func TestRefreshJob_Run_AllMetricsByDefault(t *testing.T) {
	f := newFixture(t, worker.RefreshConfig{})
	f.provision(t, 1)

	result := f.job.Run(context.Background())

	assert.Equal(t, len(personalization.AllMetrics()), result.TotalTasks)
	assert.Equal(t, result.TotalTasks, result.Successful)
}

func TestRefreshJob_Run_MaxUsers(t *testing.T) {
	f := newFixture(t, worker.RefreshConfig{
		Metrics:  []string{personalization.MetricValence},
		MaxUsers: 2,
	})
	f.provision(t, 5)

	result := f.job.Run(context.Background())

	assert.Equal(t, 2, result.TotalTasks)
}

func TestRefreshJob_Run_ContextCancellation(t *testing.T) {
	f := newFixture(t, worker.RefreshConfig{Concurrency: 1})
	f.provision(t, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := f.job.Run(ctx)

	// Should complete without processing everything.
	assert.NotNil(t, result)
}

func TestRefreshJob_GetMetrics(t *testing.T) {
	f := newFixture(t, worker.RefreshConfig{
		Metrics: []string{personalization.MetricOverall},
	})
	f.provision(t, 1)

	_ = f.job.Run(context.Background())

	metrics := f.job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.SuccessfulRefreshes)
	assert.NotZero(t, metrics.LastRefreshAt)
}

func TestRefreshJob_MetricsSnapshot(t *testing.T) {
	f := newFixture(t, worker.RefreshConfig{
		Metrics: []string{personalization.MetricOverall},
	})
	f.provision(t, 1)

	_ = f.job.Run(context.Background())

	snapshot := f.job.MetricsSnapshot()
	assert.Contains(t, snapshot, "total_runs")
	assert.Contains(t, snapshot, "successful_refreshes")
	assert.Contains(t, snapshot, "failed_refreshes")
	assert.Contains(t, snapshot, "last_refresh_at")
	assert.Contains(t, snapshot, "last_refresh_duration")
}

func TestNewRefreshJob_Defaults(t *testing.T) {
	f := newFixture(t, worker.RefreshConfig{})

	metrics := f.job.GetMetrics()
	assert.Equal(t, int64(0), metrics.TotalRuns)
}
