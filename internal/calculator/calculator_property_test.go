package calculator

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_RSIWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("RSI is within [0, 100]", prop.ForAll(
		func(closes []float64) bool {
			rsi, err := CalculateRSI(closes, 14)
			if err != nil {
				return len(closes) < 15
			}
			return rsi >= 0 && rsi <= 100
		},
		gen.SliceOf(gen.Float64Range(50, 20000)),
	))

	properties.TestingRun(t)
}

func TestProperty_SMAOfConstantSeries(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("SMA(20) of a constant series is the constant", prop.ForAll(
		func(price float64, n int) bool {
			prices := make([]float64, n)
			for i := range prices {
				prices[i] = price
			}
			sma, err := CalculateSMA(prices, 20)
			if err != nil {
				return false
			}
			return math.Abs(sma-price) < 1e-6
		},
		gen.Float64Range(1, 100000),
		gen.IntRange(20, 120),
	))

	properties.TestingRun(t)
}

func TestProperty_MonotonicRSI(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("strictly rising closes give RSI 100, falling give 0", prop.ForAll(
		func(start, step float64, n int) bool {
			up := make([]float64, n)
			down := make([]float64, n)
			for i := 0; i < n; i++ {
				up[i] = start + step*float64(i)
				down[i] = start + step*float64(n-i)
			}
			rsiUp, errUp := CalculateRSI(up, 14)
			rsiDown, errDown := CalculateRSI(down, 14)
			return errUp == nil && errDown == nil && rsiUp == 100 && rsiDown == 0
		},
		gen.Float64Range(100, 5000),
		gen.Float64Range(1, 50),
		gen.IntRange(15, 90),
	))

	properties.TestingRun(t)
}
