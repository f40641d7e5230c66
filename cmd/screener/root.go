package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"IDXScreener/internal/collector"
	"IDXScreener/internal/config"
	"IDXScreener/internal/logging"
	"IDXScreener/internal/screener"
	"IDXScreener/internal/universe"
)

// Set by -ldflags at build time.
var (
	version   = "dev"
	buildDate = "unknown"
)

// app holds what every command needs once flags and config are loaded.
type app struct {
	cfg     *config.Config
	jsonOut bool
	colour  bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "screener",
		Short: "IDX momentum stock screener",
		Long: `Screens Indonesia Stock Exchange tickers for consecutive daily gains
above a threshold with a minimum daily turnover.

The ticker universe comes from the IDX directory, a Yahoo search sweep,
a manual list, or a built-in list of large caps when the others fail.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	root.PersistentFlags().Bool("json", false, "output in JSON format")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")

	root.AddCommand(
		newScanCmd(a),
		newUniverseCmd(a),
		newChartCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Path(path))
	if err != nil {
		return err
	}
	if err := applyScanFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	a.cfg = cfg

	a.jsonOut, _ = cmd.Flags().GetBool("json")
	a.colour = !a.jsonOut && isatty.IsTerminal(os.Stdout.Fd())

	logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logging.SetDebugLevel()
	}
	return nil
}

func (a *app) resolver() *universe.Resolver {
	c := a.cfg
	var sources []universe.Source
	for _, name := range c.Universe.Priority {
		switch universe.Mode(name) {
		case universe.ModeIDX:
			sources = append(sources, universe.NewIDXSource(c.Universe.IDXURL, c.Proxy, c.Universe.Timeout))
		case universe.ModeYahoo:
			sources = append(sources, universe.NewYahooSearchSource(c.Universe.SearchURL, c.Proxy, c.Universe.Timeout, c.Universe.SearchInterval))
		}
	}
	return universe.NewResolver(sources, universe.Options{
		MinPlausible: c.Universe.MinPlausible,
		CacheTTL:     c.Universe.CacheTTL,
	})
}

func (a *app) fetcher() collector.Fetcher {
	h := a.cfg.History
	var f collector.Fetcher
	if h.Provider == "rest" {
		f = collector.NewRESTFetcher(h.BaseURL, h.APIKey, a.cfg.Proxy, h.Timeout)
	} else {
		f = collector.NewYahooFetcher(h.BaseURL, a.cfg.Proxy, h.Timeout)
	}
	if h.CacheTTL > 0 {
		f = collector.NewCachedFetcher(f, h.CacheTTL)
	}
	return f
}

func (a *app) scanner() *screener.Scanner {
	s := screener.NewScanner(screener.NewEngine(a.fetcher()))
	s.PauseEvery = a.cfg.Scan.PauseEvery
	s.PauseDuration = a.cfg.Scan.PauseDuration
	return s
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "screener %s (built %s)\n", version, buildDate)
			return nil
		},
	}
}
