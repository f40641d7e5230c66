package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"IDXScreener/internal/model"
)

// DefaultYahooChartURL is the Yahoo Finance v8 chart endpoint.
const DefaultYahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// jakarta is the exchange's wall clock (WIB, no DST).
var jakarta = time.FixedZone("WIB", 7*60*60)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	client *resty.Client
}

// NewYahooFetcher creates a fetcher against baseURL with optional proxy support.
func NewYahooFetcher(baseURL, proxyURL string, timeout time.Duration) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooChartURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": browserUserAgent,
		})
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &YahooFetcher{client: client}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API. Null prices decode to nil.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchHistory returns daily bars for ticker over the lookback window, oldest first.
func (f *YahooFetcher) FetchHistory(ctx context.Context, ticker model.Ticker, lookback model.Lookback) (*model.PriceHistory, error) {
	var chart yahooChart
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("symbol", string(ticker)).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    string(lookback),
		}).
		SetResult(&chart).
		SetError(&chart).
		Get("/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", ticker, err)
	}

	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" || resp.StatusCode() == http.StatusNotFound {
			return nil, fmt.Errorf("yahoo %s: %s: %w", ticker, chart.Chart.Error.Description, ErrNoData)
		}
		return nil, fmt.Errorf("yahoo api error for %s: %s", ticker, chart.Chart.Error.Description)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("yahoo %s: status %d, body: %s", ticker, resp.StatusCode(), truncate(resp.String(), 200))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if c == 0 || (o == 0 && h == 0 && l == 0) {
			continue // null bar (holiday, suspension)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).In(jakarta),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}
	return &model.PriceHistory{
		Symbol: ticker,
		Name:   name,
		Bars:   normalizeBars(bars),
	}, nil
}

func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
