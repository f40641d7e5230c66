package calculator

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateEMA returns the final value of an exponential moving average with the given span.
// The average is seeded with the first price and updated recursively with alpha = 2/(span+1),
// so no value looks ahead of its own bar. At least span prices are required.
func CalculateEMA(prices []float64, span int) (float64, error) {
	if span <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(prices) < span {
		return 0, ErrInsufficientData
	}
	alpha := 2.0 / float64(span+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = alpha*p + (1-alpha)*ema
	}
	return ema, nil
}
