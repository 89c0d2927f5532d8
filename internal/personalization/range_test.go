package personalization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

func intPtr(v int) *int { return &v }

func TestPersonalizedRange_QuartilesIndependentOfOrder(t *testing.T) {
	histories := [][]float64{
		{1, 3, 5, 7, 9},
		{9, 1, 5, 3, 7},
		{5, 9, 3, 1, 7},
	}

	for _, h := range histories {
		r := personalization.PersonalizedRange(personalization.MetricOverall, h, nil)
		// n=5: nearest-rank indices 1, 2, 3 of the sorted history.
		assert.Equal(t, 3.0, r.Min)
		assert.Equal(t, 5.0, r.Optimal)
		assert.Equal(t, 7.0, r.Max)
		assert.Equal(t, 5.0, r.PersonalAverage)
	}
}

func TestPersonalizedRange_SmallHistoryFallsBackToDefault(t *testing.T) {
	def := personalization.DefaultRange(personalization.MetricHydration)

	for _, h := range [][]float64{nil, {55}, {55, 60}} {
		r := personalization.PersonalizedRange(personalization.MetricHydration, h, nil)
		assert.Equal(t, def, r, "history of %d values should return the default range", len(h))
	}
}

func TestPersonalizedRange_UnknownMetricFallback(t *testing.T) {
	r := personalization.PersonalizedRange("sleep", nil, nil)

	assert.Equal(t, 30.0, r.Min)
	assert.Equal(t, 70.0, r.Max)
	assert.Equal(t, 50.0, r.Optimal)
	assert.Equal(t, 50.0, r.PersonalAverage)
	assert.Equal(t, 10.0, r.StandardDeviation)
}

func TestPersonalizedRange_PopulationStandardDeviation(t *testing.T) {
	r := personalization.PersonalizedRange(personalization.MetricOverall, []float64{10, 20, 30}, nil)

	assert.Equal(t, 20.0, r.PersonalAverage)
	assert.InDelta(t, 8.1650, r.StandardDeviation, 0.001)
}

func TestPersonalizedRange_ProfileAdjustmentsApplied(t *testing.T) {
	profile := &personalization.Profile{SkinType: personalization.SkinTypeDry}

	// n=4, sorted [50 60 65 70]: quartiles at indices 1, 2, 3.
	r := personalization.PersonalizedRange(personalization.MetricHydration, []float64{70, 50, 65, 60}, profile)

	// Dry skin hydration deltas: min -10, max +5, optimal -5.
	assert.Equal(t, 50.0, r.Min)
	assert.Equal(t, 75.0, r.Max)
	assert.Equal(t, 60.0, r.Optimal)
}

func TestPersonalizedRange_OptimalClampedIntoAdjustedBounds(t *testing.T) {
	profile := &personalization.Profile{SkinType: personalization.SkinTypeOily}

	// Oily oiliness deltas {+5, +15, +10}: q3=95 caps max at 100 and
	// q2=92 would push optimal to 102, so it must clamp to max.
	r := personalization.PersonalizedRange(personalization.MetricOiliness, []float64{80, 92, 95}, profile)

	require.Equal(t, 100.0, r.Max)
	assert.Equal(t, 100.0, r.Optimal)
	assert.LessOrEqual(t, r.Optimal, r.Max)
	assert.GreaterOrEqual(t, r.Optimal, r.Min)
}

func TestPersonalizedRange_MinFlooredAtZero(t *testing.T) {
	profile := &personalization.Profile{SkinType: personalization.SkinTypeDry}

	// Dry oiliness deltas {-15, -5, -10}: q1=10 would go to -5.
	r := personalization.PersonalizedRange(personalization.MetricOiliness, []float64{5, 10, 20, 30}, profile)

	assert.Equal(t, 0.0, r.Min)
}

func TestInRange_ToleranceBoundary(t *testing.T) {
	r := personalization.Range{Min: 40, Max: 60}

	// Width 20, default tolerance 0.1 -> 2 points of slack per side.
	assert.True(t, personalization.InRange(38, r, personalization.DefaultTolerance))
	assert.False(t, personalization.InRange(37.9, r, personalization.DefaultTolerance))
	assert.True(t, personalization.InRange(62, r, personalization.DefaultTolerance))
	assert.False(t, personalization.InRange(62.1, r, personalization.DefaultTolerance))
}

func TestInRange_ZeroTolerance(t *testing.T) {
	r := personalization.Range{Min: 40, Max: 60}

	assert.True(t, personalization.InRange(40, r, 0))
	assert.False(t, personalization.InRange(39.99, r, 0))
}
