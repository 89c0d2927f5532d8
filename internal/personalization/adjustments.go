package personalization

// Adjustment holds the deltas applied to a metric's raw quartile range.
type Adjustment struct {
	Min     float64
	Max     float64
	Optimal float64
}

// Adjustments returns the profile-based deltas for a metric.
//
// Each matching rule reassigns the whole adjustment rather than
// accumulating, so when several rules target the same metric only the
// last one in source order survives. A young user with dry skin gets the
// dry-skin hydration deltas, not the sum of both rules. This mirrors the
// behavior the mobile app shipped with; see DESIGN.md for the open
// question on accumulation.
func Adjustments(metric string, profile *Profile) Adjustment {
	var adj Adjustment
	if profile == nil {
		return adj
	}

	// Age rules.
	if profile.Age != nil {
		age := *profile.Age
		if age < 25 {
			if metric == MetricTexture {
				adj = Adjustment{Min: 5, Max: 5, Optimal: 5}
			}
			if metric == MetricHydration {
				adj = Adjustment{Min: 5, Max: 5, Optimal: 5}
			}
		}
		if age > 50 {
			if metric == MetricTexture {
				adj = Adjustment{Min: -5, Max: -5, Optimal: -5}
			}
		}
	}

	// Skin type rules.
	switch profile.SkinType {
	case SkinTypeDry:
		if metric == MetricHydration {
			adj = Adjustment{Min: -10, Max: 5, Optimal: -5}
		}
		if metric == MetricOiliness {
			adj = Adjustment{Min: -15, Max: -5, Optimal: -10}
		}
	case SkinTypeOily:
		if metric == MetricOiliness {
			adj = Adjustment{Min: 5, Max: 15, Optimal: 10}
		}
		if metric == MetricHydration {
			adj = Adjustment{Min: 5, Max: 10, Optimal: 5}
		}
	case SkinTypeSensitive:
		if metric == MetricRedness {
			adj = Adjustment{Min: 5, Max: 10, Optimal: 5}
		}
	}

	// Medical condition rules.
	if profile.HasCondition(ConditionRosacea) {
		if metric == MetricRedness {
			adj = Adjustment{Min: 10, Max: 20, Optimal: 15}
		}
	}
	if profile.HasCondition(ConditionEczema) {
		if metric == MetricTexture {
			adj = Adjustment{Min: -10, Max: -5, Optimal: -7}
		}
		if metric == MetricRedness {
			adj = Adjustment{Min: 5, Max: 15, Optimal: 10}
		}
	}

	return adj
}
