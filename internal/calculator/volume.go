package calculator

// CalculateVolumeTrend compares the mean volume of the last period bars with the mean of the
// period bars before them and returns the percent change.
func CalculateVolumeTrend(volumes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(volumes) < period*2 {
		return 0, ErrInsufficientData
	}
	n := len(volumes)
	recent := mean(volumes[n-period:])
	previous := mean(volumes[n-2*period : n-period])
	if previous == 0 {
		return 0, ErrUndefinedBaseline
	}
	return (recent - previous) / previous * 100, nil
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
