package personalization

import "math"

// maxPossibleDiff is the normalization constant for the personalization
// score: an average per-bound shift of 50 points counts as fully
// personalized.
const maxPossibleDiff = 50

// Thresholds derives low/medium/high alerting thresholds from the user's
// personalized range and compares them with the metric defaults.
func Thresholds(metric string, history []float64, profile *Profile) AdaptiveThresholds {
	personalized := PersonalizedRange(metric, history, profile)
	def := DefaultRange(metric)

	p := bandsFromRange(personalized)
	d := bandsFromRange(def)

	return AdaptiveThresholds{
		Metric:       metric,
		Personalized: p,
		Default:      d,
		Difference: Bands{
			Low:    p.Low - d.Low,
			Medium: p.Medium - d.Medium,
			High:   p.High - d.High,
		},
	}
}

// Score measures how far a user's personalized range has drifted from the
// metric defaults, as a value in [0, 1]. Users with fewer than
// MinHistoryForScore samples score 0.
func Score(metric string, history []float64) float64 {
	if len(history) < MinHistoryForScore {
		return 0
	}

	personalized := PersonalizedRange(metric, history, nil)
	def := DefaultRange(metric)

	avgDiff := (math.Abs(personalized.Min-def.Min) +
		math.Abs(personalized.Max-def.Max) +
		math.Abs(personalized.Optimal-def.Optimal)) / 3

	return clamp(avgDiff/maxPossibleDiff, 0, 1)
}

func bandsFromRange(r Range) Bands {
	return Bands{Low: r.Min, Medium: r.Optimal, High: r.Max}
}
