// Package worker provides background job processing for Yachai.
package worker

import (
	"time"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

// RefreshConfig holds configuration for the baseline refresh job.
type RefreshConfig struct {
	// Metrics are the metric keys to recompute baselines for.
	// If empty, uses personalization.AllMetrics.
	Metrics []string

	// Concurrency is the number of concurrent refresh operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each user/metric refresh.
	// Default: 30 seconds
	Timeout time.Duration

	// MaxUsers caps the number of users processed per run.
	// 0 means no limit.
	MaxUsers int
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Metrics:     personalization.AllMetrics(),
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// TotalTasks returns the number of refresh tasks for the given user count.
func (c RefreshConfig) TotalTasks(userCount int) int {
	if c.MaxUsers > 0 && userCount > c.MaxUsers {
		userCount = c.MaxUsers
	}
	return userCount * len(c.Metrics)
}
