// Package screener applies the momentum rule to ticker histories.
package screener

import (
	"context"
	"errors"
	"fmt"

	"IDXScreener/internal/calculator"
	"IDXScreener/internal/collector"
	"IDXScreener/internal/model"
)

const (
	rsiPeriod         = 14
	smaPeriod         = 20
	emaSpan           = 20
	volumeTrendPeriod = 5

	// shortLookbackBars is the most bars the 5d window reliably yields.
	shortLookbackBars = 5
)

// Engine evaluates one ticker against ScanCriteria.
type Engine struct {
	fetcher collector.Fetcher
}

// NewEngine creates an Engine backed by fetcher.
func NewEngine(fetcher collector.Fetcher) *Engine {
	return &Engine{fetcher: fetcher}
}

// LookbackFor picks the history window needed by criteria.
func LookbackFor(c model.ScanCriteria) model.Lookback {
	if c.IncludeIndicators {
		return model.Lookback3mo
	}
	if c.ConsecutiveDays+1 <= shortLookbackBars {
		return model.Lookback5d
	}
	return model.Lookback1mo
}

// Evaluate fetches history for ticker and applies the gain and turnover rules.
// A nil row with a nil error means the ticker did not qualify, including when the
// provider has too little history. Fetch failures are returned as errors.
func (e *Engine) Evaluate(ctx context.Context, ticker model.Ticker, c model.ScanCriteria, names model.NameMap) (*model.ScanResultRow, error) {
	history, err := e.fetcher.FetchHistory(ctx, ticker, LookbackFor(c))
	if err != nil {
		if errors.Is(err, collector.ErrNoData) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	return evaluateHistory(ticker, history, c, names), nil
}

func evaluateHistory(ticker model.Ticker, history *model.PriceHistory, c model.ScanCriteria, names model.NameMap) *model.ScanResultRow {
	if history.Len() < c.ConsecutiveDays+1 {
		return nil
	}
	closes := history.Closes()

	changes, err := calculator.PercentChanges(closes, c.ConsecutiveDays)
	if err != nil {
		// zero close in the window
		return nil
	}
	if !calculator.AllAtLeast(changes, c.GainThresholdPct) {
		return nil
	}

	last := history.Bars[len(history.Bars)-1]
	turnover := last.Close * last.Volume
	if turnover < c.MinTurnover {
		return nil
	}

	row := &model.ScanResultRow{
		Ticker:    ticker,
		Code:      ticker.Code(),
		Name:      resolveName(ticker, history, names),
		LastClose: last.Close,
		Turnover:  turnover,
		Gains:     labelGains(changes),
	}
	if c.IncludeIndicators {
		row.Indicators = computeIndicators(closes, history.Volumes())
	}
	return row
}

// labelGains reverses chronological changes so the most recent day comes first.
// Offsets count down from len(changes) for the oldest to 1 for the latest.
func labelGains(changes []float64) []model.DayGain {
	n := len(changes)
	gains := make([]model.DayGain, n)
	for i, pct := range changes {
		offset := n - i
		gains[offset-1] = model.DayGain{
			Label:  fmt.Sprintf("Day -%d", offset),
			Offset: offset,
			Pct:    pct,
		}
	}
	return gains
}

func resolveName(ticker model.Ticker, history *model.PriceHistory, names model.NameMap) string {
	if name := names.Lookup(ticker); name != "" {
		return name
	}
	if history != nil && history.Name != "" {
		return history.Name
	}
	return ticker.Code()
}

func computeIndicators(closes, volumes []float64) *model.Indicators {
	ind := &model.Indicators{}
	if v, err := calculator.CalculateRSI(closes, rsiPeriod); err == nil {
		ind.RSI14 = &v
	}
	if v, err := calculator.CalculateSMA(closes, smaPeriod); err == nil {
		ind.SMA20 = &v
	}
	if v, err := calculator.CalculateEMA(closes, emaSpan); err == nil {
		ind.EMA20 = &v
	}
	if v, err := calculator.CalculateVolumeTrend(volumes, volumeTrendPeriod); err == nil {
		ind.VolumeTrendPct = &v
	}
	return ind
}
