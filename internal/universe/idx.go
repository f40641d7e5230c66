package universe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/kaptinlin/jsonrepair"
)

// DefaultIDXURL is the listed-company endpoint behind the IDX website.
const DefaultIDXURL = "https://www.idx.co.id/umbraco/Surface/ListedCompany/GetListedCompany"

// IDXSource reads the exchange-operated listed-company directory.
type IDXSource struct {
	client *resty.Client
	url    string
}

// NewIDXSource creates the IDX directory source with optional proxy support.
func NewIDXSource(url, proxyURL string, timeout time.Duration) *IDXSource {
	if url == "" {
		url = DefaultIDXURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"Accept":          "application/json, text/plain, */*",
			"Accept-Encoding": "gzip, br",
			"Referer":         "https://www.idx.co.id/",
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		}).
		OnAfterResponse(decompressMiddleware)
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &IDXSource{client: client, url: url}
}

func (s *IDXSource) Name() string { return string(ModeIDX) }

type idxRow struct {
	KodeEmiten     string `json:"KodeEmiten"`
	NamaEmiten     string `json:"NamaEmiten"`
	NamaPerusahaan string `json:"NamaPerusahaan"`
}

func (s *IDXSource) Fetch(ctx context.Context) ([]Listing, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("emitenType", "s").
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("idx request: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("idx: status %d", resp.StatusCode())
	}

	body := resp.Body()
	if isHTML(resp.Header().Get("Content-Type"), body) {
		return nil, fmt.Errorf("idx returned an HTML page (%q) instead of JSON", pageTitle(body))
	}

	rows, err := decodeIDXRows(body)
	if err != nil {
		repaired, rerr := jsonrepair.JSONRepair(string(body))
		if rerr != nil {
			return nil, fmt.Errorf("decode idx payload: %w", err)
		}
		if rows, err = decodeIDXRows([]byte(repaired)); err != nil {
			return nil, fmt.Errorf("decode repaired idx payload: %w", err)
		}
	}

	listings := make([]Listing, 0, len(rows))
	for _, row := range rows {
		ticker, ok := NormalizeTicker(row.KodeEmiten)
		if !ok {
			continue
		}
		name := strings.TrimSpace(row.NamaEmiten)
		if name == "" {
			name = strings.TrimSpace(row.NamaPerusahaan)
		}
		if name == "" {
			name = ticker.Code()
		}
		listings = append(listings, Listing{Ticker: ticker, Name: name})
	}
	return listings, nil
}

// decodeIDXRows accepts both a bare array and the {"data": [...]} envelope.
func decodeIDXRows(body []byte) ([]idxRow, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty body")
	}
	if trimmed[0] == '[' {
		var rows []idxRow
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}
	var envelope struct {
		Data []idxRow `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}

func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "unparseable"
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "untitled"
	}
	return title
}
