package universe

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseManual_CSVWithHeader(t *testing.T) {
	csvData := "No;Nama Perusahaan;Kode Saham\n1;Bank Central Asia;BBCA\n2;Telkom;tlkm\n3;Broken;\n"
	listings, diags := ParseManual(&ManualInput{FileName: "watch.csv", File: strings.NewReader(csvData)})

	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %+v", listings)
	}
	if listings[0].Ticker != "BBCA.JK" || listings[0].Name != "Bank Central Asia" {
		t.Errorf("unexpected first listing %+v", listings[0])
	}
	if listings[1].Ticker != "TLKM.JK" {
		t.Errorf("unexpected second listing %+v", listings[1])
	}
	if len(diags) != 1 || !strings.Contains(diags[0], "skipped 1") {
		t.Errorf("expected one skipped-row diagnostic, got %v", diags)
	}
}

func TestParseManual_CSVWithoutHeader(t *testing.T) {
	listings, _ := ParseManual(&ManualInput{FileName: "list.txt", File: strings.NewReader("BBRI\nBMRI\n")})
	if len(listings) != 2 || listings[0].Ticker != "BBRI.JK" || listings[1].Ticker != "BMRI.JK" {
		t.Errorf("unexpected listings %+v", listings)
	}
}

func TestParseManual_TextAndFileMerged(t *testing.T) {
	listings, _ := ParseManual(&ManualInput{
		Text:     "BBCA, ASII",
		FileName: "more.csv",
		File:     strings.NewReader("ticker\nASII\nUNVR\n"),
	})
	if len(listings) != 3 {
		t.Fatalf("expected 3 deduplicated listings, got %+v", listings)
	}
}

func TestParseManual_Spreadsheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "Company")
	f.SetCellValue(sheet, "B1", "Symbol")
	f.SetCellValue(sheet, "A2", "Astra International")
	f.SetCellValue(sheet, "B2", "ASII.JK")
	f.SetCellValue(sheet, "A3", "Kalbe Farma")
	f.SetCellValue(sheet, "B3", "klbf")
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	listings, diags := ParseManual(&ManualInput{FileName: "upload.xlsx", File: bytes.NewReader(buf.Bytes())})
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics %v", diags)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %+v", listings)
	}
	if listings[1].Ticker != "KLBF.JK" || listings[1].Name != "Kalbe Farma" {
		t.Errorf("unexpected listing %+v", listings[1])
	}
}

func TestParseManual_BrokenSpreadsheet(t *testing.T) {
	listings, diags := ParseManual(&ManualInput{FileName: "bad.xlsx", File: strings.NewReader("not a zip")})
	if len(listings) != 0 {
		t.Errorf("expected no listings, got %+v", listings)
	}
	if len(diags) != 1 {
		t.Errorf("expected one diagnostic, got %v", diags)
	}
}

func TestPickColumns(t *testing.T) {
	tests := []struct {
		header []string
		ticker int
		name   int
		start  int
	}{
		{[]string{"Kode", "Nama Emiten"}, 0, 1, 1},
		{[]string{"Nama", "Nama Emiten", "Kode"}, 2, 0, 1},
		{[]string{"BBCA", "whatever"}, 0, -1, 0},
		{[]string{"Company"}, 1, 0, 1},
	}
	for _, tt := range tests {
		ticker, name, start := pickColumns(tt.header)
		if ticker != tt.ticker || name != tt.name || start != tt.start {
			t.Errorf("pickColumns(%v) = %d,%d,%d; want %d,%d,%d", tt.header, ticker, name, start, tt.ticker, tt.name, tt.start)
		}
	}
}

func TestParseManual_PreparsedListings(t *testing.T) {
	listings, _ := ParseManual(&ManualInput{
		Text:     "BBRI",
		Listings: []Listing{{Ticker: "BBCA.JK", Name: "Bank Central Asia"}},
	})
	if len(listings) != 2 || listings[0].Name != "Bank Central Asia" || listings[1].Ticker != "BBRI.JK" {
		t.Errorf("unexpected listings %+v", listings)
	}
}
