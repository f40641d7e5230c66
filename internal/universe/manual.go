package universe

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ManualInput carries user-supplied codes: free text and/or an uploaded table.
type ManualInput struct {
	Text     string
	FileName string    // used to pick the parser by extension
	File     io.Reader // nil when no file was uploaded
	Listings []Listing // entries parsed earlier, used as-is
}

var (
	tickerHeaderKeywords = []string{"ticker", "symbol", "kode", "code", "emiten", "saham", "stock"}
	nameHeaderKeywords   = []string{"nama", "name", "company", "perusahaan"}
)

// ParseManual parses text and file input into deduplicated listings. Unusable rows and
// files are skipped and described in the returned diagnostics.
func ParseManual(in *ManualInput) ([]Listing, []string) {
	if in == nil {
		return nil, []string{"no manual input supplied"}
	}
	var (
		listings = append([]Listing(nil), in.Listings...)
		diags    []string
	)

	if strings.TrimSpace(in.Text) != "" {
		found, skipped := ParseManualText(in.Text)
		listings = append(listings, found...)
		if skipped > 0 {
			diags = append(diags, fmt.Sprintf("skipped %d unusable entries in manual text", skipped))
		}
	}

	if in.File != nil {
		rows, err := readTable(in.FileName, in.File)
		if err != nil {
			diags = append(diags, fmt.Sprintf("manual file %s: %v", in.FileName, err))
		} else {
			found, skipped := listingsFromRows(rows)
			listings = append(listings, found...)
			if skipped > 0 {
				diags = append(diags, fmt.Sprintf("skipped %d unusable rows in %s", skipped, in.FileName))
			}
		}
	}

	return dedupe(listings), diags
}

// ParseManualText reads codes separated by newlines, commas, semicolons or whitespace.
func ParseManualText(text string) (listings []Listing, skipped int) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '\n', '\r', ',', ';', '\t', ' ':
			return true
		}
		return false
	})
	for _, f := range fields {
		ticker, ok := NormalizeTicker(f)
		if !ok {
			skipped++
			continue
		}
		listings = append(listings, Listing{Ticker: ticker})
	}
	return listings, skipped
}

func readTable(name string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return readSpreadsheet(r)
	default:
		return readDelimited(r)
	}
}

func readSpreadsheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readDelimited(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse delimited file: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab on the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if c := bytes.Count(line, []byte(string(d))); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

// listingsFromRows locates the ticker column by header keyword and converts each row.
func listingsFromRows(rows [][]string) (listings []Listing, skipped int) {
	if len(rows) == 0 {
		return nil, 0
	}
	tickerCol, nameCol, start := pickColumns(rows[0])
	for _, row := range rows[start:] {
		if tickerCol >= len(row) || strings.TrimSpace(row[tickerCol]) == "" {
			skipped++
			continue
		}
		ticker, ok := NormalizeTicker(row[tickerCol])
		if !ok {
			skipped++
			continue
		}
		l := Listing{Ticker: ticker}
		if nameCol >= 0 && nameCol < len(row) {
			l.Name = strings.TrimSpace(row[nameCol])
		}
		listings = append(listings, l)
	}
	return listings, skipped
}

// pickColumns inspects the first row. When it looks like a header, the ticker and name
// columns are taken from it and data starts on the next row; otherwise the first column
// holds tickers and the first row is data.
func pickColumns(header []string) (tickerCol, nameCol, start int) {
	tickerCol, nameCol = -1, -1
	for i, cell := range header {
		c := strings.ToLower(strings.TrimSpace(cell))
		if containsAny(c, nameHeaderKeywords) {
			if nameCol < 0 {
				nameCol = i
			}
			continue
		}
		if tickerCol < 0 && containsAny(c, tickerHeaderKeywords) {
			tickerCol = i
		}
	}
	if tickerCol < 0 && nameCol < 0 {
		return 0, -1, 0
	}
	if tickerCol < 0 {
		tickerCol = 0
		if nameCol == 0 {
			tickerCol = 1
		}
	}
	return tickerCol, nameCol, 1
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
