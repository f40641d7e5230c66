package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"IDXScreener/internal/config"
	"IDXScreener/internal/model"
	"IDXScreener/internal/screener"
	"IDXScreener/internal/universe"
)

// addUniverseFlags registers the flags that choose and feed the ticker universe.
func addUniverseFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "universe source: auto, idx, yahoo or manual")
	cmd.Flags().String("tickers", "", "manual ticker list, separated by commas, spaces or newlines")
	cmd.Flags().String("file", "", "manual ticker file (.csv, .txt, .tsv or .xlsx)")
}

// addScanFlags registers universe flags plus the screening criteria.
func addScanFlags(cmd *cobra.Command) {
	addUniverseFlags(cmd)
	cmd.Flags().Float64("min-turnover-bn", 0, "minimum daily turnover in billions of rupiah")
	cmd.Flags().Float64("gain", 0, "minimum gain per day in percent")
	cmd.Flags().Int("days", 0, "number of consecutive gaining days")
	cmd.Flags().Bool("indicators", false, "compute RSI, SMA, EMA and volume trend")
}

// applyScanFlags copies explicitly set flags over the loaded config.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("mode") {
		cfg.Universe.Mode, _ = flags.GetString("mode")
	} else if changed("tickers") || changed("file") {
		cfg.Universe.Mode = string(universe.ModeManual)
	}
	if changed("min-turnover-bn") {
		cfg.Scan.MinTurnoverBn, _ = flags.GetFloat64("min-turnover-bn")
	}
	if changed("gain") {
		cfg.Scan.GainThresholdPct, _ = flags.GetFloat64("gain")
	}
	if changed("days") {
		cfg.Scan.ConsecutiveDays, _ = flags.GetInt("days")
	}
	if changed("indicators") {
		cfg.Scan.IncludeIndicators, _ = flags.GetBool("indicators")
	}
	takesManual := flags.Lookup("tickers") != nil
	if takesManual && cfg.Universe.Mode == string(universe.ModeManual) && !changed("tickers") && !changed("file") {
		return fmt.Errorf("manual mode needs --tickers or --file")
	}
	return nil
}

// openManual builds the manual input from --tickers and --file. The returned
// closer is always safe to call.
func openManual(cmd *cobra.Command) (*universe.ManualInput, func(), error) {
	noop := func() {}
	text, _ := cmd.Flags().GetString("tickers")
	path, _ := cmd.Flags().GetString("file")
	if text == "" && path == "" {
		return nil, noop, nil
	}

	in := &universe.ManualInput{Text: text}
	if path == "" {
		return in, noop, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, noop, fmt.Errorf("open ticker file: %w", err)
	}
	in.FileName = filepath.Base(path)
	in.File = f
	return in, func() { f.Close() }, nil
}

// progressPrinter rewrites one status line on w.
func progressPrinter(w io.Writer) screener.ProgressFunc {
	return func(done, total int, ticker model.Ticker) {
		fmt.Fprintf(w, "\rScanning %d/%d %-10s", done, total, ticker)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}
