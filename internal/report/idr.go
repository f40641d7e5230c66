// Package report renders scan outcomes for terminals, files and chart front-ends.
package report

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	trillion = decimal.New(1, 12)
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
)

// FormatIDR renders a rupiah amount with the T (triliun), M (miliar) and Jt (juta) units.
func FormatIDR(value float64) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return "Rp 0"
	}
	d := decimal.NewFromFloat(value)
	switch {
	case d.GreaterThanOrEqual(trillion):
		return "Rp " + d.Div(trillion).StringFixed(2) + " T"
	case d.GreaterThanOrEqual(billion):
		return "Rp " + d.Div(billion).StringFixed(2) + " M"
	case d.GreaterThanOrEqual(million):
		return "Rp " + d.Div(million).StringFixed(2) + " Jt"
	default:
		return "Rp " + humanize.Comma(d.Round(0).IntPart())
	}
}
