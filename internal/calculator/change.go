package calculator

// PercentChanges returns the day-over-day percent changes of the last days+1 closes,
// oldest first: change[i] = (close[i+1]-close[i]) / close[i] * 100.
func PercentChanges(closes []float64, days int) ([]float64, error) {
	if days <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(closes) < days+1 {
		return nil, ErrInsufficientData
	}
	window := closes[len(closes)-days-1:]
	changes := make([]float64, days)
	for i := 0; i < days; i++ {
		if window[i] == 0 {
			return nil, ErrUndefinedBaseline
		}
		changes[i] = (window[i+1] - window[i]) / window[i] * 100
	}
	return changes, nil
}

// AllAtLeast reports whether every value is >= threshold. Equality passes.
func AllAtLeast(values []float64, threshold float64) bool {
	for _, v := range values {
		if v < threshold {
			return false
		}
	}
	return true
}
