package calculator

import (
	"errors"
	"math"

	"IDXScreener/internal/model"
)

// PriceRange returns the highest high and lowest low of the last n bars, or of all
// bars when n <= 0 or exceeds the series.
func PriceRange(bars []model.OHLCV, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrInsufficientData
	}
	start := 0
	if n > 0 && n < len(bars) {
		start = len(bars) - n
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// RangePosition returns where current sits within [low, high], clamped to 0..1.
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
