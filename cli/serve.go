package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/api"
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve aggregations over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(v)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := startApp(ctx, v, cfg, logger)
			if err != nil {
				return err
			}

			server := api.New(cfg.Server, cfg.Aggregator, app.Aggregator, app.Registry, logger, api.WithCacheStats(app.Cache))
			app.Registry.Register(server)
			if err := app.Registry.StartAll(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			logger.Info("Received shutdown signal, stopping services")
			app.Registry.StopAll()
			logger.Info("Stopped", zap.String("addr", server.Addr()))
			return nil
		},
	}
	cmd.Flags().String("port", "", "HTTP port (default from config)")
	cmd.Flags().Duration("timeout", 0, "bound each aggregation, 0 for no deadline")
	cmd.Flags().Duration("feed-timeout", 10*time.Second, "wait this long for streaming price feeds")
	return cmd
}
