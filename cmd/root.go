package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/txscout/txscout/internal/config"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/txscout/txscout/cmd.Version=1.2.3" .
var Version = "0.3.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "txscout",
	Short: "Fetch parsed Solana transactions",
	Long: `txscout — fetch parsed Solana transactions by signature and keep
them as JSON files on disk.

  Look up one or many signatures against the Helius enriched-transactions
  API, browse what you've saved, and track the programs your transactions
  touch in a reviewable registry.

The API key is resolved from --api-key, the ` + config.EnvAPIKey + ` env var
(a .env in the working directory is honored), or the OS keychain
(txscout config set-api-key).`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// TXSCOUT_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("TXSCOUT_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.txscout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Register all sub-commands.
	rootCmd.AddCommand(
		fetchCmd,
		showCmd,
		browseCmd,
		registryCmd,
		configCmd,
	)
}
