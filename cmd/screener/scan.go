package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"IDXScreener/internal/model"
	"IDXScreener/internal/report"
	"IDXScreener/internal/universe"
)

// scanPayload is the --json shape of a scan.
type scanPayload struct {
	Source      string   `json:"source"`
	Diagnostics []string `json:"diagnostics,omitempty"`
	*model.ScanOutcome
}

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan and print the matching tickers",
		Example: `  screener scan
  screener scan --days 3 --gain 2.5 --min-turnover-bn 20
  screener scan --tickers "BBCA,BBRI,TLKM" --indicators --csv auto`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd)
		},
	}
	addScanFlags(cmd)
	cmd.Flags().String("csv", "", `export results to this CSV file ("auto" for a timestamped name)`)
	cmd.Flags().Bool("progress", true, "show progress on stderr")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command) error {
	manual, closeManual, err := openManual(cmd)
	if err != nil {
		return err
	}
	defer closeManual()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	u := a.resolver().Resolve(ctx, a.cfg.Mode(), manual)
	s := a.scanner()
	if show, _ := cmd.Flags().GetBool("progress"); show && !a.jsonOut && isatty.IsTerminal(os.Stderr.Fd()) {
		s.Progress = progressPrinter(cmd.ErrOrStderr())
	}

	out, scanErr := s.Scan(ctx, u.Tickers, a.cfg.Criteria(), u.Names)
	if out == nil {
		return scanErr
	}
	if err := a.writeOutcome(cmd.OutOrStdout(), u, out); err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		if err := exportCSV(path, out); err != nil {
			return err
		}
	}
	if errors.Is(scanErr, context.Canceled) {
		return fmt.Errorf("scan interrupted after %d of %d tickers", out.Scanned, out.Total)
	}
	return scanErr
}

func (a *app) writeOutcome(w io.Writer, u universe.Universe, out *model.ScanOutcome) error {
	if a.jsonOut {
		return report.WriteJSON(w, scanPayload{Source: u.Source, Diagnostics: u.Diagnostics, ScanOutcome: out}, a.colour)
	}
	fmt.Fprintf(w, "Universe: %d tickers from %s\n", len(u.Tickers), u.Source)
	for _, d := range u.Diagnostics {
		fmt.Fprintf(w, "  - %s\n", d)
	}
	fmt.Fprintln(w)
	return report.WriteTable(w, out)
}

func exportCSV(path string, out *model.ScanOutcome) error {
	if path == "auto" {
		path = report.CSVFileName(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := report.WriteCSV(f, out); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv: %w", err)
	}
	log.Info().Str("file", path).Int("rows", len(out.Rows)).Msg("results exported")
	return nil
}
