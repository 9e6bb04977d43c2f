package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/status-im/wallet-aggregator/aggregator"
	"github.com/status-im/wallet-aggregator/config"
	"github.com/status-im/wallet-aggregator/core"
	"github.com/status-im/wallet-aggregator/interfaces"
	"github.com/status-im/wallet-aggregator/logging"
	"github.com/status-im/wallet-aggregator/portfolio"
)

// aggregationFlags registers the flags shared by fetch and watch
func aggregationFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("wallets", "w", "", "YAML or JSON wallets file")
	flags.String("fiat", "", "target fiat currency (default from config)")
	flags.Bool("concurrent", false, "run lookups on a worker pool")
	flags.BoolP("verbose", "v", false, "log the number of planned external calls")
	flags.Duration("timeout", 0, "bound each aggregation, 0 for no deadline")
	flags.StringP("format", "f", portfolio.FormatTable, "output format: table or json")
	flags.String("source", "", "pin price lookups to one provider")
	flags.Bool("skip-cache", false, "refresh cached prices instead of reading them")
	flags.Duration("feed-timeout", 10*time.Second, "wait this long for streaming price feeds")
}

// loadConfig loads the dotenv file, the YAML configuration and then applies
// flag and environment overrides
func loadConfig(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	if err := config.LoadDotEnv(v.GetString("env-file")); err != nil {
		return nil, nil, err
	}

	cfg, err := config.LoadConfig(v.GetString("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if v.IsSet("fiat") && v.GetString("fiat") != "" {
		cfg.Aggregator.Fiat = v.GetString("fiat")
	}
	if v.IsSet("concurrent") {
		cfg.Aggregator.Concurrent = v.GetBool("concurrent")
	}
	if v.IsSet("verbose") {
		cfg.Aggregator.Verbose = v.GetBool("verbose")
	}
	if v.IsSet("timeout") {
		cfg.Aggregator.Timeout = v.GetDuration("timeout")
	}
	if v.IsSet("port") && v.GetString("port") != "" {
		cfg.Server.Port = v.GetString("port")
	}
	if v.IsSet("log-level") && v.GetString("log-level") != "" {
		cfg.Log.Level = v.GetString("log-level")
	}
	if v.IsSet("log-dev") {
		cfg.Log.Development = v.GetBool("log-dev")
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

// startApp wires and starts the services, then waits for streaming feeds.
// A feed that stays silent is only logged: the price chain falls back.
func startApp(ctx context.Context, v *viper.Viper, cfg *config.Config, logger *zap.Logger) (*core.App, error) {
	app, err := core.Setup(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := app.Registry.StartAll(ctx); err != nil {
		return nil, err
	}
	if err := app.WaitForPriceFeeds(ctx, v.GetDuration("feed-timeout")); err != nil {
		logger.Warn("Continuing without streaming prices", zap.Error(err))
	}
	return app, nil
}

// collectWallets merges the wallets file with "currency:address" arguments
func collectWallets(v *viper.Viper, args []string) ([]aggregator.WalletRequest, error) {
	var wallets []aggregator.WalletRequest
	if path := v.GetString("wallets"); path != "" {
		fromFile, err := portfolio.LoadWallets(path)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, fromFile...)
	}

	fromArgs, err := portfolio.ParseWalletArgs(args)
	if err != nil {
		return nil, err
	}
	wallets = append(wallets, fromArgs...)

	if len(wallets) == 0 {
		return nil, fmt.Errorf("%w: pass --wallets or currency:address arguments", aggregator.ErrNoWallets)
	}
	return wallets, nil
}

func lookupOptions(v *viper.Viper, cfg *config.Config) interfaces.Options {
	opts := interfaces.Options{
		Concurrent: cfg.Aggregator.Concurrent,
		Verbose:    cfg.Aggregator.Verbose,
	}
	extra := map[string]any{}
	if source := v.GetString("source"); source != "" {
		extra["source"] = source
	}
	if v.GetBool("skip-cache") {
		extra["skip_cache"] = true
	}
	if len(extra) > 0 {
		opts.Extra = extra
	}
	return opts
}

// aggregateOnce runs one aggregation under the configured timeout
func aggregateOnce(ctx context.Context, app *core.App, cfg *config.Config, wallets []aggregator.WalletRequest, opts interfaces.Options) ([]aggregator.WalletRecord, error) {
	if cfg.Aggregator.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Aggregator.Timeout)
		defer cancel()
	}
	return app.Aggregator.Aggregate(ctx, wallets, cfg.Aggregator.Fiat, opts)
}
