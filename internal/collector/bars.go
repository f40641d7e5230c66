package collector

import (
	"sort"

	"IDXScreener/internal/model"
)

// normalizeBars sorts bars chronologically and keeps one bar per calendar day.
// When a provider appends an intraday snapshot for a day it already reported,
// the later bar wins.
func normalizeBars(bars []model.OHLCV) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && sameDay(out[n-1], b) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func sameDay(a, b model.OHLCV) bool {
	ay, am, ad := a.Time.Date()
	by, bm, bd := b.Time.Date()
	return ay == by && am == bm && ad == bd
}
