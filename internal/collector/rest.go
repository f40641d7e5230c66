package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"IDXScreener/internal/model"
)

// RESTFetcher implements Fetcher against a self-hosted bar service exposing
// GET {base}/api/v1/bars/daily?symbol=BBCA.JK&range=5d.
type RESTFetcher struct {
	client *resty.Client
}

// NewRESTFetcher creates a new fetcher with optional bearer auth and proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &RESTFetcher{client: client}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bar service.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type restBars struct {
	Name string    `json:"name"`
	Bars []restBar `json:"bars"`
}

func (f *RESTFetcher) FetchHistory(ctx context.Context, ticker model.Ticker, lookback model.Lookback) (*model.PriceHistory, error) {
	var payload restBars
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": string(ticker),
			"range":  string(lookback),
		}).
		SetResult(&payload).
		Get("/api/v1/bars/daily")
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %w", ticker, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("fetch bars %s: %w", ticker, ErrNoData)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch bars %s: status %d, body: %s", ticker, resp.StatusCode(), truncate(resp.String(), 200))
	}
	if len(payload.Bars) == 0 {
		return nil, fmt.Errorf("fetch bars %s: %w", ticker, ErrNoData)
	}

	bars := make([]model.OHLCV, len(payload.Bars))
	for i, b := range payload.Bars {
		bars[i] = model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0).In(jakarta),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return &model.PriceHistory{Symbol: ticker, Name: payload.Name, Bars: normalizeBars(bars)}, nil
}
