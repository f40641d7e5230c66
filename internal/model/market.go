package model

import (
	"strings"
	"time"
)

// MarketSuffix is the Yahoo suffix for instruments listed on the Indonesia Stock Exchange.
const MarketSuffix = ".JK"

// Ticker is an exchange-qualified symbol such as "BBCA.JK".
type Ticker string

// Code returns the bare exchange code without the market suffix.
func (t Ticker) Code() string {
	return strings.TrimSuffix(string(t), MarketSuffix)
}

func (t Ticker) String() string { return string(t) }

// NameMap maps a ticker to its company name. Read-only once a universe is resolved.
type NameMap map[Ticker]string

// Lookup returns the mapped name, or "" when the map is nil or has no entry.
func (n NameMap) Lookup(t Ticker) string {
	if n == nil {
		return ""
	}
	return n[t]
}

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceHistory holds the bars returned for one ticker, oldest first.
type PriceHistory struct {
	Symbol Ticker
	Name   string // provider-reported long name, may be empty
	Bars   []OHLCV
}

// Len returns the number of bars, treating a nil history as empty.
func (h *PriceHistory) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Bars)
}

// Closes extracts closing prices in chronological order.
func (h *PriceHistory) Closes() []float64 {
	if h == nil {
		return nil
	}
	closes := make([]float64, len(h.Bars))
	for i, b := range h.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes extracts volumes in chronological order.
func (h *PriceHistory) Volumes() []float64 {
	if h == nil {
		return nil
	}
	vols := make([]float64, len(h.Bars))
	for i, b := range h.Bars {
		vols[i] = b.Volume
	}
	return vols
}

// Lookback is the coarse history window understood by the history provider.
type Lookback string

const (
	Lookback5d  Lookback = "5d"
	Lookback1mo Lookback = "1mo"
	Lookback3mo Lookback = "3mo"
)
