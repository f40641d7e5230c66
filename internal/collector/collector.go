package collector

import (
	"context"
	"sync"
	"time"

	"IDXScreener/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Histories map[model.Ticker]*model.PriceHistory
	Errors    map[model.Ticker]error
	Delay     time.Duration

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records one FetchHistory invocation.
type MockCall struct {
	Ticker   model.Ticker
	Lookback model.Lookback
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(ctx context.Context, ticker model.Ticker, lookback model.Lookback) (*model.PriceHistory, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Ticker: ticker, Lookback: lookback})
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if err, ok := m.Errors[ticker]; ok {
		return nil, err
	}
	if h, ok := m.Histories[ticker]; ok {
		return h, nil
	}
	return nil, ErrNoData
}

// Calls returns a copy of the recorded invocations.
func (m *MockFetcher) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// BarsFromCloses builds consecutive daily bars from 2024-01-01 with the given closes and a
// constant volume. Open equals the previous close.
func BarsFromCloses(closes []float64, volume float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, jakarta)
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		high, low := open, c
		if c > open {
			high, low = c, open
		}
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}
