package personalization

import (
	"math"
	"sort"
)

// PersonalizedRange computes a user's personalized range for a metric from
// historical values.
//
// With fewer than MinHistoryForRange samples the metric's default range is
// returned unchanged. Otherwise min/optimal/max come from the 25th/50th/75th
// nearest-rank percentiles of the sorted history (index floor(n*q), no
// interpolation). When a profile is supplied the quartiles are shifted by
// the profile adjustment rules, with min floored at 0, max capped at 100
// and optimal clamped into the adjusted [min, max].
func PersonalizedRange(metric string, history []float64, profile *Profile) Range {
	if len(history) < MinHistoryForRange {
		return DefaultRange(metric)
	}

	sorted := make([]float64, len(history))
	copy(sorted, history)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := sorted[n/4]
	q2 := sorted[n/2]
	q3 := sorted[n*3/4]

	mean := Mean(history)
	sd := StdDev(history)

	min, optimal, max := q1, q2, q3
	if profile != nil {
		adj := Adjustments(metric, profile)
		min = math.Max(0, q1+adj.Min)
		max = math.Min(100, q3+adj.Max)
		optimal = clamp(q2+adj.Optimal, min, max)
	}

	return Range{
		Min:               min,
		Max:               max,
		Optimal:           optimal,
		PersonalAverage:   mean,
		StandardDeviation: sd,
	}
}

// InRange reports whether a value falls inside the range, widened on both
// sides by tolerance*(max-min). Pass DefaultTolerance unless the caller
// has a specific slack requirement.
func InRange(value float64, r Range, tolerance float64) bool {
	margin := tolerance * (r.Max - r.Min)
	return value >= r.Min-margin && value <= r.Max+margin
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values, or 0 for an
// empty slice.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
