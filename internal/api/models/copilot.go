package models

import "github.com/alessandro-lagamba/yachai-server/internal/personalization"

// ScoreBand classifies how a current value sits against the personalized
// range, for UI coloring.
type ScoreBand string

const (
	BandOptimal   ScoreBand = "OPTIMAL"
	BandAttention ScoreBand = "ATTENTION"
	BandCritical  ScoreBand = "CRITICAL"
)

// MetricCard is one metric's slot in the daily briefing.
type MetricCard struct {
	Metric  string                `json:"metric"`
	Current *float64              `json:"current,omitempty"`
	Range   personalization.Range `json:"range"`
	Trend   string                `json:"trend"`
	Band    ScoreBand             `json:"band"`
}

// Briefing is the daily copilot summary for a user.
type Briefing struct {
	GeneratedAt Timestamp                 `json:"generatedAt"`
	Cards       []MetricCard              `json:"cards"`
	Patterns    []personalization.Pattern `json:"patterns"`

	// CoachMessage is an AI-generated note; empty when the user has not
	// consented to AI processing or the remote endpoint is unavailable.
	CoachMessage string `json:"coachMessage,omitempty"`
}
