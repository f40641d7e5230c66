package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"IDXScreener/internal/model"
	"IDXScreener/internal/notifier"
	"IDXScreener/internal/scheduler"
	"IDXScreener/internal/universe"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Repeat the scan on a schedule (every five minutes by default)",
		Long: `Runs the scan on the configured cron schedule until interrupted.
When Telegram credentials are configured each run is reported to the chat,
and the bot answers /scan, /last and /refresh.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			manual, closeManual, err := openManual(cmd)
			if err != nil {
				return err
			}
			defer closeManual()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var tn *notifier.TelegramNotifier
			var rep scheduler.Reporter
			if a.cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(a.cfg.Telegram.APIURL, a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
				rep = tn
			}

			sched := scheduler.NewScheduler(ctx, a.resolver(), a.scanner(), rep, a.cfg.Mode(), a.cfg.Criteria())
			sched.Manual = manual
			if manual != nil && manual.File != nil {
				// the file reader is consumed once; later runs reuse the parsed listings
				listings, diags := universe.ParseManual(manual)
				for _, d := range diags {
					log.Warn().Msg(d)
				}
				sched.Manual = &universe.ManualInput{Listings: listings}
			}

			w := cmd.OutOrStdout()
			sched.OnScan = func(u universe.Universe, out *model.ScanOutcome) {
				if err := a.writeOutcome(w, u, out); err != nil {
					log.Error().Err(err).Msg("write outcome failed")
				}
				if !a.jsonOut {
					fmt.Fprintf(w, "Last scan: %s | next: %s\n\n",
						out.FinishedAt.Format("15:04:05"), sched.Next().Format("15:04:05"))
				}
			}

			if err := sched.Register(a.cfg.Schedule.ScanCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Info().Msg("telegram polling started")
			}

			if now, _ := cmd.Flags().GetBool("now"); now {
				go func() {
					if _, err := sched.RunNow(ctx); err != nil {
						log.Warn().Err(err).Msg("initial scan")
					}
				}()
			}

			log.Info().Str("schedule", a.cfg.Schedule.ScanCron).Msg("watching, press Ctrl+C to stop")
			<-ctx.Done()
			log.Info().Msg("shutdown signal received, stopping")
			return nil
		},
	}
	addScanFlags(cmd)
	cmd.Flags().Bool("now", true, "run one scan immediately instead of waiting for the first tick")
	return cmd
}
