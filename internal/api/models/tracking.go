package models

import "github.com/alessandro-lagamba/yachai-server/internal/personalization"

// SampleInput is the request body for recording a measurement.
type SampleInput struct {
	Metric     string     `json:"metric"`
	Value      float64    `json:"value"`
	RecordedAt *Timestamp `json:"recordedAt,omitempty"`
}

// Sample is a stored measurement.
type Sample struct {
	ID         string    `json:"id"`
	Metric     string    `json:"metric"`
	Value      float64   `json:"value"`
	RecordedAt Timestamp `json:"recordedAt"`
}

// SampleList is a paged list of samples.
type SampleList struct {
	Items []Sample          `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// RangeResponse wraps a personalized range with its provenance.
type RangeResponse struct {
	Metric string `json:"metric"`

	// Personalized is false when the user lacked enough history and the
	// population default range was returned instead.
	Personalized bool `json:"personalized"`

	SampleCount int `json:"sampleCount"`

	Range personalization.Range `json:"range"`
}

// PatternsResponse lists the patterns detected for a metric.
type PatternsResponse struct {
	Metric   string                  `json:"metric"`
	Patterns []personalization.Pattern `json:"patterns"`
}

// TrendResponse carries the trend message for the latest measurement.
type TrendResponse struct {
	Metric  string                `json:"metric"`
	Current float64               `json:"current"`
	Range   personalization.Range `json:"range"`
	Message string                `json:"message"`
	InRange bool                  `json:"inRange"`
}

// ScoreResponse reports how personalized a metric's thresholds are.
type ScoreResponse struct {
	Metric string  `json:"metric"`
	Score  float64 `json:"score"`
}
