package personalization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alessandro-lagamba/yachai-server/internal/personalization"
)

func TestTrendMessage_AboveAverage(t *testing.T) {
	r := personalization.Range{PersonalAverage: 50}

	msg := personalization.TrendMessage(55, r, []float64{1, 2, 3})

	assert.Equal(t, "↑ 10% sopra la tua media (50)", msg)
}

func TestTrendMessage_BelowAverage(t *testing.T) {
	r := personalization.Range{PersonalAverage: 50}

	msg := personalization.TrendMessage(45, r, []float64{1, 2, 3})

	assert.Equal(t, "↓ 10% sotto la tua media (50)", msg)
}

func TestTrendMessage_OnAverage(t *testing.T) {
	r := personalization.Range{PersonalAverage: 50}

	msg := personalization.TrendMessage(50, r, []float64{1, 2, 3})

	assert.Equal(t, "In linea con la tua media (50)", msg)
}

func TestTrendMessage_FirstMeasurement(t *testing.T) {
	msg := personalization.TrendMessage(55, personalization.Range{PersonalAverage: 50}, nil)

	assert.Equal(t, "Prima misurazione registrata! Continua così per costruire la tua baseline.", msg)
}

// A zero personal average (e.g. all-zero valence readings) must not leak
// Inf or NaN into the user-facing message.
func TestTrendMessage_ZeroAverageBaseline(t *testing.T) {
	r := personalization.Range{PersonalAverage: 0}

	msg := personalization.TrendMessage(10, r, []float64{0, 0, 0})

	assert.Equal(t, "Non c'è ancora una baseline di riferimento per questo valore.", msg)
	assert.NotContains(t, msg, "Inf")
	assert.NotContains(t, msg, "NaN")
}

func TestTrendMessage_RoundsPercentageAndAverage(t *testing.T) {
	r := personalization.Range{PersonalAverage: 60.4}

	msg := personalization.TrendMessage(70, r, []float64{1, 2, 3})

	// (70-60.4)/60.4 = 15.89% -> 16%, average 60.4 -> 60.
	assert.Equal(t, "↑ 16% sopra la tua media (60)", msg)
}
