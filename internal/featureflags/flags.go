// Package featureflags provides feature flag management for runtime configuration.
package featureflags

import (
	"encoding/json"
	"time"
)

// Well-known feature flag keys.
const (
	// FlagDisableJournalReflection skips the AI reflection on new journal entries.
	FlagDisableJournalReflection = "disable_journal_reflection"

	// FlagDisableCoachMessage omits the AI coach message from the daily briefing.
	FlagDisableCoachMessage = "disable_coach_message"

	// FlagCachedOnlyInsights serves ranges from stored baselines only,
	// skipping on-request recomputation.
	FlagCachedOnlyInsights = "cached_only_insights"

	// FlagDisablePatternDetection turns off temporal pattern detection.
	FlagDisablePatternDetection = "disable_pattern_detection"
)

// Flag represents a feature flag with its current value.
type Flag struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// BoolValue returns the flag value as a boolean.
// Returns the default value if the flag is nil, not found, or not a boolean.
func (f *Flag) BoolValue(defaultValue bool) bool {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case bool:
		return v
	case float64:
		// JSON unmarshals numbers as float64
		return v != 0
	default:
		return defaultValue
	}
}

// IntValue returns the flag value as an integer.
// Returns the default value if the flag is nil, not found, or not a number.
func (f *Flag) IntValue(defaultValue int) int {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return defaultValue
	}
}

// JSONValue unmarshals the flag value into the target struct.
func (f *Flag) JSONValue(target interface{}) error {
	if f == nil {
		return nil
	}
	data, err := json.Marshal(f.Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// DefaultFlags returns the default feature flags for the application.
func DefaultFlags() map[string]*Flag {
	now := time.Now()
	return map[string]*Flag{
		FlagDisableJournalReflection: {
			Key:       FlagDisableJournalReflection,
			Value:     false,
			UpdatedAt: now,
		},
		FlagDisableCoachMessage: {
			Key:       FlagDisableCoachMessage,
			Value:     false,
			UpdatedAt: now,
		},
		FlagCachedOnlyInsights: {
			Key:       FlagCachedOnlyInsights,
			Value:     false,
			UpdatedAt: now,
		},
		FlagDisablePatternDetection: {
			Key:       FlagDisablePatternDetection,
			Value:     false,
			UpdatedAt: now,
		},
	}
}
