package universe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"IDXScreener/internal/model"
)

type fakeSource struct {
	name     string
	listings []Listing
	err      error
	calls    int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(context.Context) ([]Listing, error) {
	f.calls++
	return f.listings, f.err
}

func makeListings(n int) []Listing {
	out := make([]Listing, n)
	for i := range out {
		code := fmt.Sprintf("T%03d", i)
		out[i] = Listing{Ticker: model.Ticker(code + ".JK"), Name: "Company " + code}
	}
	return out
}

func TestResolve_AutoPrefersFirstPlausibleSource(t *testing.T) {
	idx := &fakeSource{name: "idx", listings: makeListings(5)}
	yahoo := &fakeSource{name: "yahoo", listings: makeListings(12)}
	r := NewResolver([]Source{idx, yahoo}, Options{MinPlausible: 10})

	u := r.Resolve(context.Background(), ModeAuto, nil)
	if u.Source != "yahoo" {
		t.Fatalf("expected yahoo, got %s", u.Source)
	}
	if len(u.Tickers) != 12 {
		t.Errorf("expected 12 tickers, got %d", len(u.Tickers))
	}
	if len(u.Diagnostics) != 1 || !strings.Contains(u.Diagnostics[0], "plausibility") {
		t.Errorf("expected a plausibility diagnostic, got %v", u.Diagnostics)
	}
}

func TestResolve_AutoFallsBackToStatic(t *testing.T) {
	idx := &fakeSource{name: "idx", err: errors.New("connection refused")}
	yahoo := &fakeSource{name: "yahoo", listings: makeListings(2)}
	r := NewResolver([]Source{idx, yahoo}, Options{MinPlausible: 200})

	u := r.Resolve(context.Background(), ModeAuto, nil)
	if !u.Fallback() {
		t.Fatalf("expected static fallback, got %s", u.Source)
	}
	if len(u.Tickers) != len(staticListings) || len(u.Tickers) == 0 {
		t.Errorf("expected %d static tickers, got %d", len(staticListings), len(u.Tickers))
	}
	if len(u.Diagnostics) != 3 {
		t.Errorf("expected 3 diagnostics, got %v", u.Diagnostics)
	}
	if u.Names["BBCA.JK"] == "" {
		t.Error("expected names for static tickers")
	}
}

func TestResolve_SingleSourceModes(t *testing.T) {
	idx := &fakeSource{name: "idx", listings: makeListings(3)}
	yahoo := &fakeSource{name: "yahoo", listings: nil}
	r := NewResolver([]Source{idx, yahoo}, Options{MinPlausible: 200})

	u := r.Resolve(context.Background(), ModeIDX, nil)
	if u.Source != "idx" || len(u.Tickers) != 3 {
		t.Errorf("idx mode: got source=%s tickers=%d", u.Source, len(u.Tickers))
	}
	if yahoo.calls != 0 {
		t.Errorf("idx mode must not query yahoo")
	}

	u = r.Resolve(context.Background(), ModeYahoo, nil)
	if !u.Fallback() {
		t.Errorf("empty yahoo result should fall back, got %s", u.Source)
	}
}

func TestResolve_CachesUntilRefresh(t *testing.T) {
	idx := &fakeSource{name: "idx", listings: makeListings(20)}
	r := NewResolver([]Source{idx}, Options{MinPlausible: 10})

	r.Resolve(context.Background(), ModeAuto, nil)
	r.Resolve(context.Background(), ModeAuto, nil)
	if idx.calls != 1 {
		t.Fatalf("expected 1 fetch while cached, got %d", idx.calls)
	}

	r.Refresh()
	r.Resolve(context.Background(), ModeAuto, nil)
	if idx.calls != 2 {
		t.Errorf("expected refetch after Refresh, got %d calls", idx.calls)
	}
}

func TestResolve_FailuresAreNotCached(t *testing.T) {
	idx := &fakeSource{name: "idx", err: errors.New("timeout")}
	r := NewResolver([]Source{idx}, Options{MinPlausible: 1})

	r.Resolve(context.Background(), ModeAuto, nil)
	r.Resolve(context.Background(), ModeAuto, nil)
	if idx.calls != 2 {
		t.Errorf("expected failed source to be retried, got %d calls", idx.calls)
	}
}

func TestResolve_Manual(t *testing.T) {
	r := NewResolver(nil, DefaultOptions())

	u := r.Resolve(context.Background(), ModeManual, &ManualInput{Text: "bbca\nBBRI.JK\n$tlkm,\nbbca\n"})
	if u.Source != "manual" {
		t.Fatalf("expected manual source, got %s", u.Source)
	}
	want := []model.Ticker{"BBCA.JK", "BBRI.JK", "TLKM.JK"}
	if len(u.Tickers) != len(want) {
		t.Fatalf("expected %v, got %v", want, u.Tickers)
	}
	for i := range want {
		if u.Tickers[i] != want[i] {
			t.Errorf("ticker %d: expected %s, got %s", i, want[i], u.Tickers[i])
		}
	}
	if _, ok := u.Names["TLKM.JK"]; ok {
		t.Errorf("unnamed manual ticker should have no name entry, got %q", u.Names["TLKM.JK"])
	}

	u = r.Resolve(context.Background(), ModeManual, &ManualInput{Text: "   \n!!!\n"})
	if !u.Fallback() {
		t.Errorf("unusable manual input should fall back, got %s", u.Source)
	}
}

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		in   string
		want model.Ticker
		ok   bool
	}{
		{"bbca", "BBCA.JK", true},
		{" BBCA.JK ", "BBCA.JK", true},
		{"bbca.jk", "BBCA.JK", true},
		{"IDX:GOTO", "GOTO.JK", true},
		{"\"ASII\",", "ASII.JK", true},
		{"", "", false},
		{"---", "", false},
		{"VERYLONGCODE", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeTicker(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NormalizeTicker(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"":           ModeAuto,
		"Auto":       ModeAuto,
		"IDX only":   ModeIDX,
		"yahoo":      ModeYahoo,
		"Yahoo only": ModeYahoo,
		"manual":     ModeManual,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("bloomberg"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
