package personalization

// Metric names known to the default-range table. Callers may pass any
// string; unknown metrics fall back to genericRange.
const (
	MetricTexture   = "texture"
	MetricRedness   = "redness"
	MetricHydration = "hydration"
	MetricOiliness  = "oiliness"
	MetricOverall   = "overall"
	MetricValence   = "valence"
	MetricArousal   = "arousal"
	MetricCalories  = "calories"
)

// AllMetrics returns the metrics with dedicated default ranges, in a
// stable order. Used by the worker to iterate baseline recomputation.
func AllMetrics() []string {
	return []string{
		MetricTexture,
		MetricRedness,
		MetricHydration,
		MetricOiliness,
		MetricOverall,
		MetricValence,
		MetricArousal,
		MetricCalories,
	}
}

// defaultRanges holds the population-level ranges used until a user has
// enough history for personalization. Skin metrics are on a 0-100 scale,
// as are valence/arousal after normalization. Calories are normalized to
// a 0-100 percentage of the daily target before storage.
var defaultRanges = map[string]Range{
	MetricTexture:   {Min: 40, Max: 80, Optimal: 65, PersonalAverage: 60, StandardDeviation: 12},
	MetricRedness:   {Min: 10, Max: 45, Optimal: 20, PersonalAverage: 25, StandardDeviation: 10},
	MetricHydration: {Min: 50, Max: 85, Optimal: 70, PersonalAverage: 65, StandardDeviation: 10},
	MetricOiliness:  {Min: 20, Max: 60, Optimal: 40, PersonalAverage: 40, StandardDeviation: 12},
	MetricOverall:   {Min: 50, Max: 85, Optimal: 70, PersonalAverage: 65, StandardDeviation: 10},
	MetricValence:   {Min: 30, Max: 80, Optimal: 60, PersonalAverage: 55, StandardDeviation: 15},
	MetricArousal:   {Min: 30, Max: 75, Optimal: 50, PersonalAverage: 50, StandardDeviation: 15},
	MetricCalories:  {Min: 60, Max: 100, Optimal: 90, PersonalAverage: 80, StandardDeviation: 15},
}

// genericRange is the fallback for metrics with no dedicated entry.
var genericRange = Range{Min: 30, Max: 70, Optimal: 50, PersonalAverage: 50, StandardDeviation: 10}

// DefaultRange returns the population default range for a metric.
// Unknown metrics get the generic fallback, never an error.
func DefaultRange(metric string) Range {
	if r, ok := defaultRanges[metric]; ok {
		return r
	}
	return genericRange
}
