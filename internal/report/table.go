package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"

	"IDXScreener/internal/model"
)

var (
	headerStyle = color.New(color.Bold, color.FgCyan)
	gainStyle   = color.New(color.FgGreen)
	failStyle   = color.New(color.FgYellow)
)

type cell struct {
	text  string
	style *color.Color
}

// WriteTable prints matches as an aligned table followed by a one-line summary.
// Colours are dropped automatically when the output is not a terminal.
func WriteTable(w io.Writer, out *model.ScanOutcome) error {
	days := out.Criteria.ConsecutiveDays
	withIndicators := out.Criteria.IncludeIndicators

	header := []string{"Code", "Name", "Last Close"}
	header = append(header, gainHeaders(days)...)
	header = append(header, "Turnover")
	if withIndicators {
		header = append(header, indicatorHeaders...)
	}

	rows := make([][]cell, 0, len(out.Rows)+1)
	rows = append(rows, styled(header, headerStyle))
	for _, r := range out.Rows {
		line := []cell{
			{text: r.Code},
			{text: r.Name},
			{text: strconv.FormatFloat(r.LastClose, 'f', -1, 64)},
		}
		for _, g := range gainCells(r, days, FormatPercent) {
			line = append(line, cell{text: g, style: gainStyle})
		}
		line = append(line, cell{text: FormatIDR(r.Turnover)})
		if withIndicators {
			line = append(line, styled(indicatorCells(r.Indicators, notAvailable), nil)...)
		}
		rows = append(rows, line)
	}

	if len(out.Rows) > 0 {
		if err := writeAligned(w, rows); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, Summary(out))
	if err != nil {
		return err
	}
	for _, f := range out.Failures {
		if _, err := failStyle.Fprintf(w, "  ! %s: %s\n", f.Ticker, f.Error); err != nil {
			return err
		}
	}
	return nil
}

// Summary describes a run in one line.
func Summary(out *model.ScanOutcome) string {
	s := fmt.Sprintf("%d of %d tickers matched (%d scanned, %d failed) in %s",
		len(out.Rows), out.Total, out.Scanned, len(out.Failures), out.Duration().Round(100*time.Millisecond))
	if out.Scanned < out.Total {
		s += " [incomplete]"
	}
	return s
}

// FormatPercent formats a change with an explicit sign.
func FormatPercent(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, v)
}

func styled(texts []string, style *color.Color) []cell {
	cells := make([]cell, len(texts))
	for i, t := range texts {
		cells[i] = cell{text: t, style: style}
	}
	return cells
}

// writeAligned pads cells before colouring them so escape codes do not skew widths.
func writeAligned(w io.Writer, rows [][]cell) error {
	var widths []int
	for _, row := range rows {
		for i, c := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := len([]rune(c.text)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		b.Reset()
		for i, c := range row {
			text := c.text
			if i < len(row)-1 {
				text += strings.Repeat(" ", widths[i]-len([]rune(c.text))+2)
			}
			if c.style != nil {
				text = c.style.Sprint(text)
			}
			b.WriteString(text)
		}
		b.WriteByte('\n')
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
