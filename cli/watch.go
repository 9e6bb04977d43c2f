package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/status-im/wallet-aggregator/portfolio"
	"github.com/status-im/wallet-aggregator/scheduler"
)

func newWatchCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [currency:address...]",
		Short: "Re-aggregate the wallets at a fixed interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(v)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			interval := v.GetDuration("interval")
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}

			wallets, err := collectWallets(v, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := startApp(ctx, v, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Registry.StopAll()

			out := cmd.OutOrStdout()
			opts := lookupOptions(v, cfg)
			format := v.GetString("format")

			task := func(ctx context.Context) error {
				records, err := aggregateOnce(ctx, app, cfg, wallets, opts)
				if err != nil {
					return err
				}
				if format != portfolio.FormatJSON {
					fmt.Fprintf(out, "\n%s\n", time.Now().Format(time.RFC3339))
				}
				return portfolio.Render(out, format, records, cfg.Aggregator.Fiat)
			}

			sched := scheduler.New("watch", interval, task, logger)
			sched.Start(ctx, true)
			<-ctx.Done()
			sched.Stop()

			stats := sched.Stats()
			if stats.Runs > 0 && stats.Runs == stats.Failures {
				return fmt.Errorf("every run failed, last error: %w", stats.LastErr)
			}
			return nil
		},
	}
	aggregationFlags(cmd)
	cmd.Flags().Duration("interval", time.Minute, "time between aggregations")
	return cmd
}
