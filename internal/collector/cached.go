package collector

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"IDXScreener/internal/model"
)

// DefaultHistoryTTL keeps a fetched history for two auto-scan periods.
const DefaultHistoryTTL = 10 * time.Minute

// CachedFetcher wraps a Fetcher and reuses successful results per ticker and
// lookback until they expire. Errors are never cached.
type CachedFetcher struct {
	next  Fetcher
	cache *cache.Cache
}

// NewCachedFetcher wraps next with a TTL cache.
func NewCachedFetcher(next Fetcher, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	return &CachedFetcher{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (f *CachedFetcher) Name() string { return f.next.Name() }

// FetchHistory returns the cached history when present. The returned value is
// shared between callers and must not be modified.
func (f *CachedFetcher) FetchHistory(ctx context.Context, ticker model.Ticker, lookback model.Lookback) (*model.PriceHistory, error) {
	key := string(ticker) + "|" + string(lookback)
	if v, ok := f.cache.Get(key); ok {
		log.Debug().Str("ticker", string(ticker)).Str("lookback", string(lookback)).Msg("history cache hit")
		return v.(*model.PriceHistory), nil
	}
	h, err := f.next.FetchHistory(ctx, ticker, lookback)
	if err != nil {
		return nil, err
	}
	f.cache.Set(key, h, cache.DefaultExpiration)
	return h, nil
}

// Flush drops every cached history.
func (f *CachedFetcher) Flush() {
	f.cache.Flush()
}
