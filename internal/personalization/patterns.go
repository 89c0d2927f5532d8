package personalization

import (
	"fmt"
	"math"
	"time"
)

// Detector thresholds, as a fraction of the cross-group average.
const (
	dailyThreshold    = 0.10
	weeklyThreshold   = 0.15
	seasonalThreshold = 0.20
)

// Minimum distinct non-empty buckets per detector. The seasonal detector
// intentionally requires only two, since at most four seasons exist.
const (
	minGroupsDaily    = 3
	minGroupsWeekly   = 3
	minGroupsSeasonal = 2
)

var weekdayNames = [7]string{
	"Domenica", "Lunedì", "Martedì", "Mercoledì", "Giovedì", "Venerdì", "Sabato",
}

var seasonNames = [4]string{"Primavera", "Estate", "Autunno", "Inverno"}

// DetectPatterns runs all pattern detectors over a metric's timestamped
// samples and returns the patterns found. Fewer than
// MinSamplesForPatterns samples short-circuits to an empty result.
func DetectPatterns(metric string, samples []Sample) []Pattern {
	if len(samples) < MinSamplesForPatterns {
		return nil
	}

	patterns := make([]Pattern, 0, 3)
	if p := DetectDailyPattern(metric, samples); p != nil {
		patterns = append(patterns, *p)
	}
	if p := DetectWeeklyPattern(metric, samples); p != nil {
		patterns = append(patterns, *p)
	}
	if p := DetectSeasonalPattern(metric, samples); p != nil {
		patterns = append(patterns, *p)
	}
	return patterns
}

// DetectDailyPattern looks for hours of day at which the metric
// systematically peaks or dips. Returns nil when no hour deviates from
// the cross-hour average by more than 10%.
func DetectDailyPattern(metric string, samples []Sample) *Pattern {
	peak, low, ok := groupedExtremes(samples, func(t time.Time) int {
		return t.Hour()
	}, minGroupsDaily, dailyThreshold)
	if !ok {
		return nil
	}

	return &Pattern{
		Type: PatternTemporal,
		Description: fmt.Sprintf(
			"I tuoi valori di %s tendono a essere più alti verso le %02d:00 e più bassi verso le %02d:00.",
			metric, peak, low),
		Confidence: dailyConfidence,
		Actionable: true,
		Suggestions: []string{
			fmt.Sprintf("Programma l'analisi alle %02d:00 per vedere il tuo massimo", peak),
			fmt.Sprintf("Evita di confrontare le misurazioni delle %02d:00 con la tua media", low),
		},
	}
}

// DetectWeeklyPattern looks for weekdays on which the metric
// systematically peaks or dips, with a 15% significance threshold.
func DetectWeeklyPattern(metric string, samples []Sample) *Pattern {
	peak, low, ok := groupedExtremes(samples, func(t time.Time) int {
		return int(t.Weekday())
	}, minGroupsWeekly, weeklyThreshold)
	if !ok {
		return nil
	}

	return &Pattern{
		Type: PatternTemporal,
		Description: fmt.Sprintf(
			"Di %s i tuoi valori di %s tendono a salire, mentre di %s tendono a scendere.",
			weekdayNames[peak], metric, weekdayNames[low]),
		Confidence: weeklyConfidence,
		Actionable: true,
		Suggestions: []string{
			fmt.Sprintf("Osserva cosa cambia nella tua routine di %s", weekdayNames[peak]),
			fmt.Sprintf("Prenditi più cura di te di %s", weekdayNames[low]),
		},
	}
}

// DetectSeasonalPattern looks for seasons in which the metric
// systematically peaks or dips, with a 20% significance threshold. Only
// two non-empty seasons are required, since a year of history is rare.
func DetectSeasonalPattern(metric string, samples []Sample) *Pattern {
	peak, low, ok := groupedExtremes(samples, func(t time.Time) int {
		return seasonOf(t.Month())
	}, minGroupsSeasonal, seasonalThreshold)
	if !ok {
		return nil
	}

	return &Pattern{
		Type: PatternSeasonal,
		Description: fmt.Sprintf(
			"In %s i tuoi valori di %s sono più alti, in %s più bassi.",
			seasonNames[peak], metric, seasonNames[low]),
		Confidence: seasonalConfidence,
		Actionable: true,
		Suggestions: []string{
			fmt.Sprintf("Adatta la tua routine durante l'%s", seasonNames[low]),
		},
	}
}

// seasonOf maps a month to a season index: 0 spring (Mar-May), 1 summer
// (Jun-Aug), 2 autumn (Sep-Nov), 3 winter (Dec-Feb).
func seasonOf(m time.Month) int {
	switch {
	case m >= time.March && m <= time.May:
		return 0
	case m >= time.June && m <= time.August:
		return 1
	case m >= time.September && m <= time.November:
		return 2
	default:
		return 3
	}
}

// groupedExtremes buckets samples by key, averages each non-empty bucket
// and picks the peak and low among the buckets whose deviation from the
// cross-bucket average exceeds threshold*average.
//
// Only significant buckets are candidates for peak/low, so a single
// significant bucket becomes both. Returns ok=false when there are fewer
// than minGroups non-empty buckets or no bucket is significant.
func groupedExtremes(samples []Sample, key func(time.Time) int, minGroups int, threshold float64) (peak, low int, ok bool) {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, s := range samples {
		k := key(s.Timestamp)
		sums[k] += s.Value
		counts[k]++
	}

	if len(counts) < minGroups {
		return 0, 0, false
	}

	averages := make(map[int]float64, len(counts))
	var total float64
	for k, sum := range sums {
		avg := sum / float64(counts[k])
		averages[k] = avg
		total += avg
	}
	overall := total / float64(len(averages))

	significant := make([]int, 0, len(averages))
	for k, avg := range averages {
		if math.Abs(avg-overall) > threshold*overall {
			significant = append(significant, k)
		}
	}
	if len(significant) == 0 {
		return 0, 0, false
	}

	peak, low = significant[0], significant[0]
	for _, k := range significant[1:] {
		if averages[k] > averages[peak] {
			peak = k
		}
		if averages[k] < averages[low] {
			low = k
		}
	}
	return peak, low, true
}
