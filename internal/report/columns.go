package report

import (
	"fmt"
	"strconv"

	"IDXScreener/internal/model"
)

const notAvailable = "N/A"

var indicatorHeaders = []string{"RSI (14)", "SMA (20)", "EMA (20)", "Volume Trend (%)"}

// gainHeaders lists the gain columns oldest first, e.g. "Day -3", "Day -2", "Day -1".
func gainHeaders(days int) []string {
	headers := make([]string, 0, days)
	for offset := days; offset >= 1; offset-- {
		headers = append(headers, fmt.Sprintf("Day -%d", offset))
	}
	return headers
}

// gainCells returns the row's gains in the same order as gainHeaders.
func gainCells(row model.ScanResultRow, days int, format func(float64) string) []string {
	byOffset := make(map[int]float64, len(row.Gains))
	for _, g := range row.Gains {
		byOffset[g.Offset] = g.Pct
	}
	cells := make([]string, 0, days)
	for offset := days; offset >= 1; offset-- {
		pct, ok := byOffset[offset]
		if !ok {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, format(pct))
	}
	return cells
}

func indicatorCells(ind *model.Indicators, missing string) []string {
	if ind == nil {
		return []string{missing, missing, missing, missing}
	}
	cell := func(v *float64) string {
		if v == nil {
			return missing
		}
		return strconv.FormatFloat(*v, 'f', 2, 64)
	}
	return []string{cell(ind.RSI14), cell(ind.SMA20), cell(ind.EMA20), cell(ind.VolumeTrendPct)}
}
