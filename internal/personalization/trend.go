package personalization

import (
	"fmt"
	"math"
)

// Fixed trend messages for histories without a usable baseline.
const (
	firstMeasurementMessage = "Prima misurazione registrata! Continua così per costruire la tua baseline."
	noBaselineMessage       = "Non c'è ancora una baseline di riferimento per questo valore."
)

// TrendMessage renders a short Italian sentence comparing the current
// value with the user's personal average.
//
// An empty history yields a fixed first-measurement message. A personal
// average of exactly zero yields a no-baseline message instead of a
// division by zero.
func TrendMessage(current float64, r Range, history []float64) string {
	if len(history) == 0 {
		return firstMeasurementMessage
	}

	avg := r.PersonalAverage
	if avg == 0 {
		return noBaselineMessage
	}

	pct := math.Round((current - avg) / avg * 100)
	avgRounded := math.Round(avg)

	switch {
	case current > avg:
		return fmt.Sprintf("↑ %.0f%% sopra la tua media (%.0f)", pct, avgRounded)
	case current < avg:
		return fmt.Sprintf("↓ %.0f%% sotto la tua media (%.0f)", math.Abs(pct), avgRounded)
	default:
		return fmt.Sprintf("In linea con la tua media (%.0f)", avgRounded)
	}
}
