package calculator

// NeutralRSI is reported when a series has neither gains nor losses.
const NeutralRSI = 50.0

// CalculateRSI computes RSI with Wilder-style exponential smoothing (alpha = 1/period).
//
// Gains and losses are smoothed over the whole series, seeded with a zero change for the first
// bar. Requires at least period+1 closes. Zero average loss yields 100 (or NeutralRSI when the
// average gain is also zero); zero average gain yields 0.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrInvalidPeriod
	}
	if len(closes) < period+1 {
		return 0, ErrInsufficientData
	}

	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = alpha*gain + (1-alpha)*avgGain
		avgLoss = alpha*loss + (1-alpha)*avgLoss
	}

	if avgLoss == 0 {
		if avgGain > 0 {
			return 100.0, nil
		}
		return NeutralRSI, nil
	}
	if avgGain == 0 {
		return 0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
