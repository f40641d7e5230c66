package calculator

import (
	"errors"
	"math"
	"testing"

	"IDXScreener/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateSMA_ConstantSeries(t *testing.T) {
	for _, n := range []int{20, 21, 40, 63} {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = 1250
		}
		sma, err := CalculateSMA(prices, 20)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if sma != 1250 {
			t.Errorf("n=%d: expected 1250, got %f", n, sma)
		}
	}
}

func TestCalculateSMA_UsesLastWindow(t *testing.T) {
	prices := []float64{100, 1, 2, 3, 4}
	sma, err := CalculateSMA(prices, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(sma, 2.5) {
		t.Errorf("expected 2.5, got %f", sma)
	}
}

func TestCalculateSMA_Errors(t *testing.T) {
	if _, err := CalculateSMA([]float64{1, 2}, 0); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
	if _, err := CalculateSMA(make([]float64, 19), 20); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestCalculateEMA(t *testing.T) {
	// span 3 -> alpha 0.5: 10, 15, 17.5
	ema, err := CalculateEMA([]float64{10, 20, 20}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(ema, 17.5) {
		t.Errorf("expected 17.5, got %f", ema)
	}

	flat := make([]float64, 25)
	for i := range flat {
		flat[i] = 800
	}
	ema, err = CalculateEMA(flat, 20)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(ema, 800) {
		t.Errorf("expected 800 for flat series, got %f", ema)
	}

	if _, err := CalculateEMA(flat[:19], 20); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestCalculateRSI_Boundaries(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	flat := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 200 - float64(i)
		flat[i] = 150
	}

	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"strictly increasing", up, 100},
		{"strictly decreasing", down, 0},
		{"flat", flat, NeutralRSI},
	}
	for _, tt := range tests {
		got, err := CalculateRSI(tt.closes, 14)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: expected %.1f, got %.4f", tt.name, tt.want, got)
		}
	}
}

func TestCalculateRSI_MixedSeries(t *testing.T) {
	// closes 1,2,1 with period 1: alpha 1 -> only the last change counts (a loss).
	got, err := CalculateRSI([]float64{1, 2, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("expected 0, got %f", got)
	}

	// period 2, closes 10, 12, 11: alpha 0.5
	// gain: 0 -> 1 -> 0.5, loss: 0 -> 0 -> 0.5, rs = 1 -> 50
	got, err = CalculateRSI([]float64{10, 12, 11}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 50) {
		t.Errorf("expected 50, got %f", got)
	}
}

func TestCalculateRSI_InsufficientData(t *testing.T) {
	if _, err := CalculateRSI(make([]float64, 14), 14); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestCalculateVolumeTrend(t *testing.T) {
	vols := []float64{100, 100, 100, 100, 100, 150, 150, 150, 150, 150}
	got, err := CalculateVolumeTrend(vols, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(got, 50) {
		t.Errorf("expected 50, got %f", got)
	}

	zeroBase := []float64{0, 0, 0, 0, 0, 10, 10, 10, 10, 10}
	if _, err := CalculateVolumeTrend(zeroBase, 5); !errors.Is(err, ErrUndefinedBaseline) {
		t.Errorf("expected ErrUndefinedBaseline, got %v", err)
	}
	if _, err := CalculateVolumeTrend(vols[:9], 5); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestPercentChanges(t *testing.T) {
	tests := []struct {
		name      string
		closes    []float64
		days      int
		threshold float64
		want      []float64
		pass      bool
	}{
		{"both at or above", []float64{100, 102, 104.1}, 2, 2.0, []float64{2.0, 2.0588235294117645}, true},
		{"first below", []float64{100, 101, 103}, 2, 2.0, []float64{1.0, 1.9801980198019802}, false},
		{"uses last window only", []float64{50, 100, 102, 104.1}, 2, 2.0, []float64{2.0, 2.0588235294117645}, true},
	}
	for _, tt := range tests {
		got, err := PercentChanges(tt.closes, tt.days)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("%s: expected %d changes, got %d", tt.name, len(tt.want), len(got))
		}
		for i := range got {
			if !almostEqual(got[i], tt.want[i]) {
				t.Errorf("%s: change[%d] expected %f, got %f", tt.name, i, tt.want[i], got[i])
			}
		}
		if AllAtLeast(got, tt.threshold) != tt.pass {
			t.Errorf("%s: expected pass=%v", tt.name, tt.pass)
		}
	}
}

func TestPercentChanges_Errors(t *testing.T) {
	if _, err := PercentChanges([]float64{1, 2}, 2); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := PercentChanges([]float64{0, 1, 2}, 2); !errors.Is(err, ErrUndefinedBaseline) {
		t.Errorf("expected ErrUndefinedBaseline, got %v", err)
	}
}

func TestPriceRange(t *testing.T) {
	bars := []model.OHLCV{
		{High: 110, Low: 90},
		{High: 130, Low: 100},
		{High: 120, Low: 95},
	}
	tests := []struct {
		n         int
		high, low float64
	}{
		{0, 130, 90},
		{2, 130, 95},
		{1, 120, 95},
		{10, 130, 90},
	}
	for _, tt := range tests {
		high, low, err := PriceRange(bars, tt.n)
		if err != nil || high != tt.high || low != tt.low {
			t.Errorf("PriceRange(n=%d) = %v, %v, %v; want %v, %v", tt.n, high, low, err, tt.high, tt.low)
		}
	}
	if _, _, err := PriceRange(nil, 0); err != ErrInsufficientData {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRangePosition(t *testing.T) {
	tests := []struct {
		current, high, low, want float64
	}{
		{100, 120, 80, 0.5},
		{130, 120, 80, 1},
		{70, 120, 80, 0},
		{100, 100, 100, 0.5},
	}
	for _, tt := range tests {
		got, err := RangePosition(tt.current, tt.high, tt.low)
		if err != nil || !almostEqual(got, tt.want) {
			t.Errorf("RangePosition(%v, %v, %v) = %v, %v; want %v", tt.current, tt.high, tt.low, got, err, tt.want)
		}
	}
	if _, err := RangePosition(100, 80, 120); err == nil {
		t.Error("expected error when high < low")
	}
}
