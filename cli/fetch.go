package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/status-im/wallet-aggregator/portfolio"
)

func newFetchCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fetch [currency:address...]",
		Short:   "Aggregate the wallets once and print the result",
		Example: "  wallet-aggregator fetch --fiat eur btc:1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa\n  wallet-aggregator fetch -w wallets.yaml --concurrent -f json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(v)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			wallets, err := collectWallets(v, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := startApp(ctx, v, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Registry.StopAll()

			records, err := aggregateOnce(ctx, app, cfg, wallets, lookupOptions(v, cfg))
			if err != nil {
				return err
			}
			return portfolio.Render(cmd.OutOrStdout(), v.GetString("format"), records, cfg.Aggregator.Fiat)
		},
	}
	aggregationFlags(cmd)
	return cmd
}
