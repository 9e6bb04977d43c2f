package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Major = "0"
	Minor = "3"
	Fix   = "0"

	envPrefix = "WALLETAGG"
)

// Version returns the semantic version of the binary
func Version() string {
	return fmt.Sprintf("%s.%s.%s", Major, Minor, Fix)
}

// NewRootCommand builds the command tree. Every flag can also be set
// through a WALLETAGG_<FLAG> environment variable, dashes becoming
// underscores.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "wallet-aggregator",
		Short:         "Aggregate crypto wallet balances in fiat",
		Long:          "wallet-aggregator looks up wallet balances and fiat prices concurrently and joins them per wallet.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to the YAML configuration file")
	flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.Bool("log-dev", false, "human readable console logs")

	rootCmd.AddCommand(
		newFetchCommand(v),
		newWatchCommand(v),
		newServeCommand(v),
		newVersionCommand(),
	)

	return rootCmd
}

// Run executes the root command
func Run(ctx context.Context, args []string) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return fmt.Errorf("wallet-aggregator: %w", err)
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wallet-aggregator %s\n", Version())
		},
	}
}
