// Package tracking stores metric measurement history and exposes the
// personalization insights computed from it.
package tracking

import (
	"errors"
	"time"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

// Tracking errors.
var (
	ErrSampleNotFound = errors.New("sample not found")
	ErrUnknownMetric  = errors.New("unknown metric")
	ErrInvalidValue   = errors.New("value out of range")
)

// Sample is a single stored measurement for one user and metric.
type Sample struct {
	// ID is the unique sample identifier (format: smp_XXXX).
	ID string

	UserID string

	// Metric names one of the tracked metrics (see personalization
	// metric constants). Values are normalized to a 0-100 scale before
	// storage.
	Metric string

	Value float64

	RecordedAt time.Time
}

// Baseline is a persisted personalized-range snapshot, recomputed by the
// background worker so reads don't rescan full histories.
type Baseline struct {
	UserID string
	Metric string

	Range personalization.Range

	// SampleCount is how many samples backed the snapshot.
	SampleCount int

	ComputedAt time.Time
}

// ListOptions filters sample queries.
type ListOptions struct {
	// Since restricts results to samples recorded at or after this time.
	// Zero means no lower bound.
	Since time.Time

	// Limit caps the number of returned samples, newest first.
	// Zero means no cap.
	Limit int
}
