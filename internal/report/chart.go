package report

import (
	"errors"
	"fmt"
	"time"

	"IDXScreener/internal/calculator"
	"IDXScreener/internal/model"
)

// ErrEmptyHistory is returned by BuildChart when there are no bars to plot.
var ErrEmptyHistory = errors.New("no bars to chart")

const (
	VolumeUp   = "green"
	VolumeDown = "red"
)

// Candle is one price bar of a chart.
type Candle struct {
	Time  time.Time `json:"time"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// VolumeBar is one volume bar, red when the session closed below its open.
type VolumeBar struct {
	Time   time.Time `json:"time"`
	Volume float64   `json:"volume"`
	Color  string    `json:"color"`
}

// Chart is renderer-agnostic candlestick plus volume data for one ticker.
type Chart struct {
	Ticker  model.Ticker `json:"ticker"`
	Title   string       `json:"title"`
	Candles []Candle     `json:"candles"`
	Volume  []VolumeBar  `json:"volume"`

	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Position float64 `json:"position"` // last close within [Low, High], 0..1
}

// BuildChart converts a price history into chart data titled "Name (CODE)".
// name falls back to the provider-reported name and then the bare code.
func BuildChart(h *model.PriceHistory, name string) (*Chart, error) {
	if h.Len() == 0 {
		return nil, ErrEmptyHistory
	}
	if name == "" {
		name = h.Name
	}
	code := h.Symbol.Code()
	if name == "" {
		name = code
	}

	c := &Chart{
		Ticker:  h.Symbol,
		Title:   fmt.Sprintf("%s (%s)", name, code),
		Candles: make([]Candle, len(h.Bars)),
		Volume:  make([]VolumeBar, len(h.Bars)),
	}
	for i, b := range h.Bars {
		c.Candles[i] = Candle{Time: b.Time, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close}
		colour := VolumeUp
		if b.Close < b.Open {
			colour = VolumeDown
		}
		c.Volume[i] = VolumeBar{Time: b.Time, Volume: b.Volume, Color: colour}
	}

	high, low, err := calculator.PriceRange(h.Bars, 0)
	if err != nil {
		return nil, err
	}
	c.High, c.Low = high, low
	if c.Position, err = calculator.RangePosition(h.Bars[len(h.Bars)-1].Close, high, low); err != nil {
		return nil, err
	}
	return c, nil
}
