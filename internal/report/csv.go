package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"IDXScreener/internal/model"
)

// CSVFileName is the default export name for a scan taken at t.
func CSVFileName(t time.Time) string {
	return fmt.Sprintf("idx_screener_%s.csv", t.Format("20060102_150405"))
}

// WriteCSV exports every row of out. Gain columns follow the scan's consecutive-day
// count and indicator columns are present only when indicators were requested.
func WriteCSV(w io.Writer, out *model.ScanOutcome) error {
	days := out.Criteria.ConsecutiveDays
	withIndicators := out.Criteria.IncludeIndicators

	header := []string{"Ticker", "Code", "Name", "Last Close"}
	header = append(header, gainHeaders(days)...)
	header = append(header, "Turnover", "Turnover (IDR)")
	if withIndicators {
		header = append(header, indicatorHeaders...)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range out.Rows {
		record := []string{
			string(row.Ticker),
			row.Code,
			row.Name,
			strconv.FormatFloat(row.LastClose, 'f', -1, 64),
		}
		record = append(record, gainCells(row, days, func(pct float64) string {
			return strconv.FormatFloat(pct, 'f', 2, 64)
		})...)
		record = append(record, strconv.FormatFloat(row.Turnover, 'f', 0, 64), FormatIDR(row.Turnover))
		if withIndicators {
			record = append(record, indicatorCells(row.Indicators, "")...)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Ticker, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
