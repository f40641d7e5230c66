package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"IDXScreener/internal/model"
	"IDXScreener/internal/report"
	"IDXScreener/internal/universe"
)

func newChartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart TICKER",
		Short: "Emit three months of candlestick and volume data for one ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ticker, ok := universe.NormalizeTicker(args[0])
			if !ok {
				return fmt.Errorf("invalid ticker %q", args[0])
			}
			h, err := a.fetcher().FetchHistory(cmd.Context(), ticker, model.Lookback3mo)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", ticker, err)
			}
			name, _ := cmd.Flags().GetString("name")
			chart, err := report.BuildChart(h, name)
			if err != nil {
				return fmt.Errorf("chart %s: %w", ticker, err)
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return report.WriteJSON(cmd.OutOrStdout(), chart, a.colour)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			return report.WriteJSON(f, chart, false)
		},
	}
	cmd.Flags().String("name", "", "company name for the chart title")
	cmd.Flags().String("out", "", "write chart JSON to this file instead of stdout")
	return cmd
}
