// Package universe resolves the set of tickers a scan runs over.
//
// Live directory sources are tried in priority order behind a TTL cache. When every
// source fails, or returns an implausibly small list, the embedded static list is used,
// so a resolved universe is never empty.
package universe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"IDXScreener/internal/model"
)

// Mode selects where the universe comes from.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeIDX    Mode = "idx"
	ModeYahoo  Mode = "yahoo"
	ModeManual Mode = "manual"
)

// SourceStatic names a universe built from the embedded list.
const SourceStatic = "static"

// ParseMode accepts the canonical mode names plus the "IDX only" / "Yahoo only" spellings.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "idx", "idx only", "idx-only":
		return ModeIDX, nil
	case "yahoo", "yahoo only", "yahoo-only":
		return ModeYahoo, nil
	case "manual":
		return ModeManual, nil
	}
	return "", fmt.Errorf("unknown universe mode %q (want auto, idx, yahoo or manual)", s)
}

// Listing is one normalized directory entry.
type Listing struct {
	Ticker model.Ticker
	Name   string
}

// Source fetches a listed-company directory. Implementations normalize their own
// payloads and return an error rather than a partial list when the upstream is unusable.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Listing, error)
}

// Universe is the outcome of one resolution.
type Universe struct {
	Tickers     []model.Ticker
	Names       model.NameMap
	Source      string
	Diagnostics []string
}

// Fallback reports whether the static list was used.
func (u Universe) Fallback() bool { return u.Source == SourceStatic }

// Options tunes a Resolver.
type Options struct {
	MinPlausible int           // smallest list auto mode accepts from a live source
	CacheTTL     time.Duration // how long a source result is reused
}

// DefaultOptions mirrors the thresholds used against the IDX directory.
func DefaultOptions() Options {
	return Options{MinPlausible: 200, CacheTTL: time.Hour}
}

// Resolver tries sources in priority order and caches their results.
type Resolver struct {
	sources      []Source
	minPlausible int
	cache        *cache.Cache
}

// NewResolver creates a Resolver over sources, highest priority first.
func NewResolver(sources []Source, opts Options) *Resolver {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	if opts.MinPlausible <= 0 {
		opts.MinPlausible = 1
	}
	return &Resolver{
		sources:      sources,
		minPlausible: opts.MinPlausible,
		cache:        cache.New(opts.CacheTTL, 10*time.Minute),
	}
}

// Refresh drops every cached source result so the next Resolve hits the network.
func (r *Resolver) Refresh() {
	r.cache.Flush()
	log.Info().Msg("universe cache cleared")
}

// Resolve builds the ticker universe for mode. It never fails: problems are reported in
// Diagnostics and the static list is returned when nothing better is available.
func (r *Resolver) Resolve(ctx context.Context, mode Mode, manual *ManualInput) Universe {
	var diags []string

	switch mode {
	case ModeManual:
		listings, d := ParseManual(manual)
		diags = append(diags, d...)
		if len(listings) > 0 {
			return build("manual", listings, diags)
		}
		diags = append(diags, "manual input produced no usable tickers")

	case ModeIDX, ModeYahoo:
		src := r.source(string(mode))
		if src == nil {
			diags = append(diags, fmt.Sprintf("source %s is not configured", mode))
			break
		}
		listings, err := r.fetch(ctx, src)
		if err != nil {
			diags = append(diags, err.Error())
		} else if len(listings) > 0 {
			return build(src.Name(), listings, diags)
		} else {
			diags = append(diags, fmt.Sprintf("source %s returned no symbols", src.Name()))
		}

	default:
		for _, src := range r.sources {
			listings, err := r.fetch(ctx, src)
			if err != nil {
				diags = append(diags, err.Error())
				continue
			}
			if len(listings) < r.minPlausible {
				diags = append(diags, fmt.Sprintf("source %s returned %d symbols, below the plausibility threshold of %d",
					src.Name(), len(listings), r.minPlausible))
				continue
			}
			return build(src.Name(), listings, diags)
		}
	}

	diags = append(diags, fmt.Sprintf("using the built-in list of %d large caps", len(staticListings)))
	for _, d := range diags {
		log.Warn().Str("mode", string(mode)).Msg(d)
	}
	return build(SourceStatic, staticListings, diags)
}

func (r *Resolver) source(name string) Source {
	for _, s := range r.sources {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// fetch returns the cached listings for src or queries it. Failures are not cached.
func (r *Resolver) fetch(ctx context.Context, src Source) ([]Listing, error) {
	key := "source:" + src.Name()
	if v, ok := r.cache.Get(key); ok {
		return v.([]Listing), nil
	}

	start := time.Now()
	listings, err := src.Fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Str("source", src.Name()).Msg("universe source unavailable")
		return nil, fmt.Errorf("source %s unavailable: %w", src.Name(), err)
	}
	listings = dedupe(listings)
	log.Info().
		Str("source", src.Name()).
		Int("symbols", len(listings)).
		Dur("took", time.Since(start)).
		Msg("universe source fetched")
	if len(listings) > 0 {
		r.cache.Set(key, listings, cache.DefaultExpiration)
	}
	return listings, nil
}

func dedupe(listings []Listing) []Listing {
	seen := make(map[model.Ticker]int, len(listings))
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if i, ok := seen[l.Ticker]; ok {
			if out[i].Name == "" {
				out[i].Name = l.Name
			}
			continue
		}
		seen[l.Ticker] = len(out)
		out = append(out, l)
	}
	return out
}

func build(source string, listings []Listing, diags []string) Universe {
	listings = dedupe(listings)
	u := Universe{
		Tickers:     make([]model.Ticker, 0, len(listings)),
		Names:       make(model.NameMap, len(listings)),
		Source:      source,
		Diagnostics: diags,
	}
	for _, l := range listings {
		u.Tickers = append(u.Tickers, l.Ticker)
		if l.Name != "" {
			u.Names[l.Ticker] = l.Name
		}
	}
	sort.Slice(u.Tickers, func(i, j int) bool { return u.Tickers[i] < u.Tickers[j] })
	return u
}

// NormalizeTicker turns user or upstream input such as "bbca", "IDX:BBCA" or "BBCA.JK"
// into the canonical "BBCA.JK". It rejects empty and over-long codes.
func NormalizeTicker(raw string) (model.Ticker, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, model.MarketSuffix)
	s = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
	if s == "" || len(s) > 8 {
		return "", false
	}
	return model.Ticker(s + model.MarketSuffix), true
}
