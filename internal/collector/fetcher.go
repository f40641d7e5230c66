package collector

import (
	"context"
	"errors"

	"IDXScreener/internal/model"
)

// ErrNoData means the provider answered but has no bars for the symbol
// (unknown or delisted ticker, empty window). Callers treat it as insufficient data.
var ErrNoData = errors.New("no price data")

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	FetchHistory(ctx context.Context, ticker model.Ticker, lookback model.Lookback) (*model.PriceHistory, error)
	Name() string
}
