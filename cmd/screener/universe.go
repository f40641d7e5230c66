package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"IDXScreener/internal/report"
)

type listingOut struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

func newUniverseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "universe",
		Short: "Resolve and list the ticker universe",
		Long: `Resolve and list the ticker universe.

Directory listings are cached in memory for universe.cache_ttl. Each invocation
starts with an empty cache; a running watch keeps its cache until /refresh.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manual, closeManual, err := openManual(cmd)
			if err != nil {
				return err
			}
			defer closeManual()

			u := a.resolver().Resolve(cmd.Context(), a.cfg.Mode(), manual)

			w := cmd.OutOrStdout()
			if a.jsonOut {
				listings := make([]listingOut, 0, len(u.Tickers))
				for _, t := range u.Tickers {
					listings = append(listings, listingOut{Ticker: string(t), Name: u.Names[t]})
				}
				return report.WriteJSON(w, map[string]any{
					"source":      u.Source,
					"count":       len(u.Tickers),
					"diagnostics": u.Diagnostics,
					"tickers":     listings,
				}, a.colour)
			}

			for _, t := range u.Tickers {
				fmt.Fprintf(w, "%-8s %s\n", t.Code(), u.Names.Lookup(t))
			}
			fmt.Fprintf(w, "\n%d tickers from %s\n", len(u.Tickers), u.Source)
			for _, d := range u.Diagnostics {
				fmt.Fprintf(w, "  - %s\n", d)
			}
			return nil
		},
	}
	addUniverseFlags(cmd)
	return cmd
}
