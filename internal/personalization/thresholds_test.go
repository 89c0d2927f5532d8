package personalization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

func TestThresholds_MapsRangeOntoBands(t *testing.T) {
	history := []float64{60, 62, 64, 66, 68, 70, 72, 74}

	th := personalization.Thresholds(personalization.MetricHydration, history, nil)

	r := personalization.PersonalizedRange(personalization.MetricHydration, history, nil)
	def := personalization.DefaultRange(personalization.MetricHydration)

	assert.Equal(t, personalization.MetricHydration, th.Metric)
	assert.Equal(t, r.Min, th.Personalized.Low)
	assert.Equal(t, r.Optimal, th.Personalized.Medium)
	assert.Equal(t, r.Max, th.Personalized.High)
	assert.Equal(t, def.Min, th.Default.Low)
	assert.Equal(t, th.Personalized.Low-th.Default.Low, th.Difference.Low)
	assert.Equal(t, th.Personalized.Medium-th.Default.Medium, th.Difference.Medium)
	assert.Equal(t, th.Personalized.High-th.Default.High, th.Difference.High)
}

func TestScore_RequiresFivePoints(t *testing.T) {
	assert.Equal(t, 0.0, personalization.Score(personalization.MetricTexture, nil))
	assert.Equal(t, 0.0, personalization.Score(personalization.MetricTexture, []float64{10, 20, 30, 40}))
}

func TestScore_ZeroWhenPersonalizedMatchesDefault(t *testing.T) {
	// Quartiles of this history land exactly on the generic fallback
	// range (30/50/70), so the personalization delta is zero.
	history := []float64{30, 30, 50, 50, 70, 70, 70}

	assert.Equal(t, 0.0, personalization.Score("sleep", history))
}

func TestScore_AlwaysWithinUnitInterval(t *testing.T) {
	histories := [][]float64{
		{0, 0, 0, 0, 0},
		{100, 100, 100, 100, 100},
		{1, 99, 1, 99, 1, 99, 50},
		{42, 42, 42, 42, 42, 42},
	}

	for _, metric := range append(personalization.AllMetrics(), "something-else") {
		for _, h := range histories {
			score := personalization.Score(metric, h)
			assert.GreaterOrEqual(t, score, 0.0, "metric %s history %v", metric, h)
			assert.LessOrEqual(t, score, 1.0, "metric %s history %v", metric, h)
		}
	}
}

func TestScore_GrowsWithDistanceFromDefault(t *testing.T) {
	near := []float64{48, 49, 50, 51, 52}
	far := []float64{0, 1, 2, 3, 4}

	nearScore := personalization.Score("generic", near)
	farScore := personalization.Score("generic", far)

	assert.Greater(t, farScore, nearScore)
}
