package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"MarketAdvisor/internal/notifier"
	"MarketAdvisor/internal/scheduler"

	"github.com/spf13/cobra"
)

func newBotCmd(opts *rootOptions) *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot with scheduled watchlist scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if err := cfg.ValidateBot(); err != nil {
				return err
			}
			ctx := cmd.Context()

			app, err := opts.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			tn.Metrics = app.Metrics

			sched := scheduler.NewScheduler(ctx, app.Advisor, app.Book, tn, app.Recorder, cfg.Watchlist)
			if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.HoldingsCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if cfg.Metrics.Addr != "" {
				srv := app.Metrics.Server(cfg.Metrics.Addr)
				go func() {
					slog.Info("metrics server listening", "addr", cfg.Metrics.Addr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						slog.Error("metrics server", "err", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
			}

			go tn.StartPolling(ctx, sched.HandleCommand)
			slog.Info("telegram polling started")

			if runOnStart {
				slog.Info("run-on-start enabled, scanning watchlist now")
				go sched.RunScanNow()
			}

			slog.Info("advisor bot is running, press Ctrl+C to stop",
				"strategy", cfg.Indicators.Strategy, "watchlist", len(cfg.Watchlist))
			<-ctx.Done()
			slog.Info("shutdown signal received, stopping")
			return nil
		},
	}

	cmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "scan the watchlist immediately")
	return cmd
}
