// Package personalization computes per-user metric ranges, temporal
// patterns and adaptive thresholds from historical wellness measurements.
//
// Every function in this package is pure and total: no I/O, no shared
// state, and no panics on malformed input. Insufficient history degrades
// to the metric's default range or an empty result rather than an error,
// so callers can always render something.
package personalization

import "time"

// Minimum data requirements for the different computations.
const (
	// MinHistoryForRange is the minimum number of samples required before
	// quartile-based personalization kicks in. Below this the metric's
	// default range is returned unchanged.
	MinHistoryForRange = 3

	// MinSamplesForPatterns is the minimum number of timestamped samples
	// required before any pattern detector runs.
	MinSamplesForPatterns = 7

	// MinHistoryForScore is the minimum number of samples required for a
	// non-zero personalization score.
	MinHistoryForScore = 5

	// DefaultTolerance is the fraction of the range width used as slack by
	// InRange when callers have no preference.
	DefaultTolerance = 0.1
)

// SkinType classifies a user's skin for profile-based range adjustments.
type SkinType string

// Supported skin types.
const (
	SkinTypeDry         SkinType = "dry"
	SkinTypeOily        SkinType = "oily"
	SkinTypeCombination SkinType = "combination"
	SkinTypeSensitive   SkinType = "sensitive"
	SkinTypeNormal      SkinType = "normal"
)

// Condition is a tagged medical condition relevant to the adjustment rules.
type Condition string

// Conditions the rule table reacts to. Other tags are stored but ignored.
const (
	ConditionRosacea Condition = "rosacea"
	ConditionEczema  Condition = "eczema"
)

// Profile carries the user attributes that drive range adjustments.
// All fields are optional; a nil Profile disables adjustments entirely.
type Profile struct {
	// Age in years, nil when unknown.
	Age *int

	// SkinType is empty when the user never completed skin onboarding.
	SkinType SkinType

	// MedicalConditions holds tagged conditions; only rosacea and eczema
	// currently influence the rules.
	MedicalConditions []Condition

	// Lifestyle, Preferences and Goals are accepted for future rules but
	// do not influence any current computation.
	Lifestyle   []string
	Preferences []string
	Goals       []string
}

// HasCondition reports whether the profile carries the given condition tag.
func (p *Profile) HasCondition(c Condition) bool {
	if p == nil {
		return false
	}
	for _, mc := range p.MedicalConditions {
		if mc == c {
			return true
		}
	}
	return false
}

// Range is a personalized statistical range for one user and metric.
type Range struct {
	// Min, Max and Optimal are derived from the 25th, 75th and 50th
	// nearest-rank percentiles of the history, shifted by any profile
	// adjustments. Optimal is always clamped into [Min, Max].
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Optimal float64 `json:"optimal"`

	// PersonalAverage is the arithmetic mean of the full history.
	PersonalAverage float64 `json:"personalAverage"`

	// StandardDeviation is the population standard deviation of the full
	// history.
	StandardDeviation float64 `json:"standardDeviation"`
}

// Sample is a single timestamped measurement used by pattern detection.
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// PatternType categorizes a detected recurring pattern.
type PatternType string

// Pattern types. Lifestyle and stress are reserved tags that no current
// detector emits.
const (
	PatternTemporal  PatternType = "temporal"
	PatternSeasonal  PatternType = "seasonal"
	PatternLifestyle PatternType = "lifestyle"
	PatternStress    PatternType = "stress"
)

// Detector confidence tags. These are static reliability labels per
// detector, not statistical measures computed from the data.
const (
	dailyConfidence    = 0.7
	weeklyConfidence   = 0.6
	seasonalConfidence = 0.5
)

// Pattern describes a recurring temporal or seasonal tendency in a metric.
type Pattern struct {
	Type        PatternType `json:"type"`
	Description string      `json:"description"`
	Confidence  float64     `json:"confidence"`
	Actionable  bool        `json:"actionable"`
	Suggestions []string    `json:"suggestions"`
}

// Bands maps a range onto low/medium/high alerting thresholds.
type Bands struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// AdaptiveThresholds compares a user's personalized thresholds with the
// metric's defaults.
type AdaptiveThresholds struct {
	Metric       string `json:"metric"`
	Personalized Bands  `json:"personalized"`
	Default      Bands  `json:"default"`

	// Difference is Personalized minus Default, per band.
	Difference Bands `json:"difference"`
}
