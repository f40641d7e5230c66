package screener

import (
	"context"
	"errors"
	"math"
	"testing"

	"IDXScreener/internal/collector"
	"IDXScreener/internal/model"
)

func history(ticker model.Ticker, name string, closes []float64, volume float64) *model.PriceHistory {
	return &model.PriceHistory{Symbol: ticker, Name: name, Bars: collector.BarsFromCloses(closes, volume)}
}

func engineFor(histories map[model.Ticker]*model.PriceHistory) (*Engine, *collector.MockFetcher) {
	m := &collector.MockFetcher{Histories: histories}
	return NewEngine(m), m
}

var momentum = model.ScanCriteria{
	MinTurnover:      15e9,
	GainThresholdPct: 2.0,
	ConsecutiveDays:  2,
}

func TestEvaluate_Examples(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		volume  float64
		minTurn float64
		match   bool
	}{
		{"gains at and above threshold", []float64{100, 102, 104.1}, 1e9, 15e9, true},
		{"first gain below threshold", []float64{100, 101, 103}, 1e12, 0, false},
		{"turnover meets minimum", []float64{4800, 4900, 5000}, 4_000_000, 15e9, true},
		{"turnover below minimum", []float64{4800, 4900, 5000}, 4_000_000, 25e9, false},
		{"only the last window counts", []float64{500, 100, 102, 104.1}, 1e9, 0, true},
		{"flat day breaks the streak", []float64{100, 103, 103}, 1e9, 0, false},
		{"zero close in window", []float64{0, 102, 104.1}, 1e9, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := engineFor(map[model.Ticker]*model.PriceHistory{
				"BBCA.JK": history("BBCA.JK", "", tt.closes, tt.volume),
			})
			c := momentum
			c.MinTurnover = tt.minTurn
			row, err := e.Evaluate(context.Background(), "BBCA.JK", c, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (row != nil) != tt.match {
				t.Fatalf("expected match=%v, got row %+v", tt.match, row)
			}
		})
	}
}

func TestEvaluate_TurnoverValue(t *testing.T) {
	e, _ := engineFor(map[model.Ticker]*model.PriceHistory{
		"TLKM.JK": history("TLKM.JK", "", []float64{4800, 4900, 5000}, 4_000_000),
	})
	row, err := e.Evaluate(context.Background(), "TLKM.JK", momentum, nil)
	if err != nil || row == nil {
		t.Fatalf("expected a row, got %v, %v", row, err)
	}
	if row.Turnover != 20_000_000_000 {
		t.Errorf("expected turnover 2e10, got %v", row.Turnover)
	}
	if row.LastClose != 5000 || row.Code != "TLKM" {
		t.Errorf("unexpected row %+v", row)
	}
	if row.Indicators != nil {
		t.Error("indicators must be nil when not requested")
	}
}

func TestEvaluate_GainLabels(t *testing.T) {
	e, _ := engineFor(map[model.Ticker]*model.PriceHistory{
		"ASII.JK": history("ASII.JK", "", []float64{100, 110, 121, 145.2}, 1e9),
	})
	c := model.ScanCriteria{GainThresholdPct: 5, ConsecutiveDays: 3}
	row, err := e.Evaluate(context.Background(), "ASII.JK", c, nil)
	if err != nil || row == nil {
		t.Fatalf("expected a row, got %v, %v", row, err)
	}
	if len(row.Gains) != 3 {
		t.Fatalf("expected 3 gains, got %d", len(row.Gains))
	}
	want := []struct {
		label  string
		offset int
		pct    float64
	}{
		{"Day -1", 1, 20},
		{"Day -2", 2, 10},
		{"Day -3", 3, 10},
	}
	for i, w := range want {
		g := row.Gains[i]
		if g.Label != w.label || g.Offset != w.offset || math.Abs(g.Pct-w.pct) > 1e-9 {
			t.Errorf("gain %d: got %+v, want %s/%d/%.1f", i, g, w.label, w.offset, w.pct)
		}
	}
}

func TestEvaluate_InsufficientHistoryIsNotMet(t *testing.T) {
	for n := 0; n <= 2; n++ {
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = 100 * math.Pow(1.1, float64(i))
		}
		e, _ := engineFor(map[model.Ticker]*model.PriceHistory{
			"GOTO.JK": history("GOTO.JK", "", closes, 1e12),
		})
		row, err := e.Evaluate(context.Background(), "GOTO.JK", model.ScanCriteria{ConsecutiveDays: 2}, nil)
		if row != nil || err != nil {
			t.Errorf("%d bars: expected nil, nil; got %v, %v", n, row, err)
		}
	}
}

func TestEvaluate_NoDataIsNotMet(t *testing.T) {
	e, _ := engineFor(nil)
	row, err := e.Evaluate(context.Background(), "XXXX.JK", momentum, nil)
	if row != nil || err != nil {
		t.Errorf("expected nil, nil; got %v, %v", row, err)
	}
}

func TestEvaluate_FetchErrorIsReturned(t *testing.T) {
	boom := errors.New("connection reset")
	m := &collector.MockFetcher{Errors: map[model.Ticker]error{"BBRI.JK": boom}}
	_, err := NewEngine(m).Evaluate(context.Background(), "BBRI.JK", momentum, nil)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
}

func TestLookbackFor(t *testing.T) {
	tests := []struct {
		days       int
		indicators bool
		want       model.Lookback
	}{
		{2, false, model.Lookback5d},
		{4, false, model.Lookback5d},
		{5, false, model.Lookback1mo},
		{10, false, model.Lookback1mo},
		{2, true, model.Lookback3mo},
	}
	for _, tt := range tests {
		e, m := engineFor(nil)
		c := model.ScanCriteria{ConsecutiveDays: tt.days, IncludeIndicators: tt.indicators}
		if got := LookbackFor(c); got != tt.want {
			t.Errorf("LookbackFor(%d, %v) = %s, want %s", tt.days, tt.indicators, got, tt.want)
		}
		e.Evaluate(context.Background(), "BBCA.JK", c, nil)
		calls := m.Calls()
		if len(calls) != 1 || calls[0].Lookback != tt.want {
			t.Errorf("fetcher called with %+v, want lookback %s", calls, tt.want)
		}
	}
}

func TestEvaluate_NameResolution(t *testing.T) {
	closes := []float64{100, 105, 110.25}
	e, _ := engineFor(map[model.Ticker]*model.PriceHistory{
		"BBCA.JK": history("BBCA.JK", "PT Bank Central Asia Tbk", closes, 1e9),
		"BMRI.JK": history("BMRI.JK", "", closes, 1e9),
	})
	names := model.NameMap{"BBCA.JK": "Bank Central Asia"}
	c := model.ScanCriteria{GainThresholdPct: 1, ConsecutiveDays: 2}

	tests := []struct {
		ticker model.Ticker
		names  model.NameMap
		want   string
	}{
		{"BBCA.JK", names, "Bank Central Asia"},
		{"BBCA.JK", nil, "PT Bank Central Asia Tbk"},
		{"BMRI.JK", names, "BMRI"},
	}
	for _, tt := range tests {
		row, err := e.Evaluate(context.Background(), tt.ticker, c, tt.names)
		if err != nil || row == nil {
			t.Fatalf("%s: expected row, got %v, %v", tt.ticker, row, err)
		}
		if row.Name != tt.want {
			t.Errorf("%s: expected name %q, got %q", tt.ticker, tt.want, row.Name)
		}
	}
}

func TestEvaluate_Indicators(t *testing.T) {
	rising := make([]float64, 60)
	for i := range rising {
		rising[i] = 1000 * math.Pow(1.03, float64(i))
	}
	e, _ := engineFor(map[model.Ticker]*model.PriceHistory{
		"ADRO.JK": history("ADRO.JK", "", rising, 1e6),
		"ANTM.JK": history("ANTM.JK", "", []float64{100, 103, 106.09}, 0),
	})
	c := model.ScanCriteria{GainThresholdPct: 2, ConsecutiveDays: 2, IncludeIndicators: true}

	row, err := e.Evaluate(context.Background(), "ADRO.JK", c, nil)
	if err != nil || row == nil {
		t.Fatalf("expected row, got %v, %v", row, err)
	}
	ind := row.Indicators
	if ind == nil || ind.RSI14 == nil || ind.SMA20 == nil || ind.EMA20 == nil || ind.VolumeTrendPct == nil {
		t.Fatalf("expected all indicators, got %+v", ind)
	}
	if *ind.RSI14 != 100 {
		t.Errorf("expected RSI 100 for rising closes, got %v", *ind.RSI14)
	}
	if *ind.VolumeTrendPct != 0 {
		t.Errorf("expected flat volume trend, got %v", *ind.VolumeTrendPct)
	}
	if *ind.SMA20 >= rising[len(rising)-1] {
		t.Errorf("SMA should lag a rising series, got %v", *ind.SMA20)
	}

	row, err = e.Evaluate(context.Background(), "ANTM.JK", c, nil)
	if err != nil || row == nil {
		t.Fatalf("expected row, got %v, %v", row, err)
	}
	ind = row.Indicators
	if ind == nil {
		t.Fatal("expected an indicators value when requested")
	}
	if ind.RSI14 != nil || ind.SMA20 != nil || ind.EMA20 != nil || ind.VolumeTrendPct != nil {
		t.Errorf("short history should leave indicators unavailable, got %+v", ind)
	}
}
