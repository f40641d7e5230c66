package universe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"IDXScreener/internal/model"
)

// DefaultYahooSearchURL is the Yahoo Finance search/autocomplete endpoint.
const DefaultYahooSearchURL = "https://query2.finance.yahoo.com/v1/finance/search"

// jakartaExchange is Yahoo's exchange code for the Indonesia Stock Exchange.
const jakartaExchange = "JKT"

// YahooSearchSource sweeps the search API with single-character queries and keeps
// Jakarta-listed symbols.
type YahooSearchSource struct {
	client  *resty.Client
	url     string
	limiter *rate.Limiter
	queries []string
}

// NewYahooSearchSource creates the sweep source. interval spaces consecutive queries.
func NewYahooSearchSource(url, proxyURL string, timeout, interval time.Duration) *YahooSearchSource {
	if url == "" {
		url = DefaultYahooSearchURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if interval <= 0 {
		interval = 80 * time.Millisecond
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		})
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooSearchSource{
		client:  client,
		url:     url,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		queries: sweepQueries(),
	}
}

func (s *YahooSearchSource) Name() string { return string(ModeYahoo) }

func sweepQueries() []string {
	var qs []string
	for c := 'A'; c <= 'Z'; c++ {
		qs = append(qs, string(c))
	}
	for c := '0'; c <= '9'; c++ {
		qs = append(qs, string(c))
	}
	return qs
}

type yahooSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
	} `json:"quotes"`
}

// Fetch runs the sweep. A failed query is skipped; the sweep fails only when all do.
func (s *YahooSearchSource) Fetch(ctx context.Context) ([]Listing, error) {
	var (
		listings []Listing
		failures int
		lastErr  error
	)
	for _, q := range s.queries {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("yahoo search: %w", err)
		}
		found, err := s.search(ctx, q)
		if err != nil {
			failures++
			lastErr = err
			log.Debug().Err(err).Str("query", q).Msg("yahoo search query failed")
			continue
		}
		listings = append(listings, found...)
	}
	if failures == len(s.queries) {
		return nil, fmt.Errorf("all %d yahoo search queries failed: %w", failures, lastErr)
	}
	return listings, nil
}

func (s *YahooSearchSource) search(ctx context.Context, q string) ([]Listing, error) {
	var result yahooSearchResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":           q,
			"quotesCount": "100",
			"newsCount":   "0",
			"lang":        "en-US",
			"region":      "ID",
		}).
		SetResult(&result).
		Get(s.url)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}

	var out []Listing
	for _, quote := range result.Quotes {
		sym := strings.ToUpper(strings.TrimSpace(quote.Symbol))
		if !strings.HasSuffix(sym, model.MarketSuffix) && !strings.EqualFold(quote.Exchange, jakartaExchange) {
			continue
		}
		ticker, ok := NormalizeTicker(sym)
		if !ok {
			continue
		}
		name := quote.LongName
		if name == "" {
			name = quote.ShortName
		}
		out = append(out, Listing{Ticker: ticker, Name: strings.TrimSpace(name)})
	}
	return out, nil
}
