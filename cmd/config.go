package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/txscout/txscout/internal/keystore"
	"github.com/txscout/txscout/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetEndpointCmd = &cobra.Command{
	Use:   "set-endpoint <url>",
	Short: "Set the API base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Endpoint = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Endpoint set to %q", args[0])))
		return nil
	},
}

var configSetOutputDirCmd = &cobra.Command{
	Use:   "set-output-dir <dir>",
	Short: "Set the default output directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.OutputDir = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Output directory set to %q", args[0])))
		return nil
	},
}

var configSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key <key>",
	Short: "Store the API key in the OS keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keystore.Default().Store(keystore.KeyAPIKey, args[0]); err != nil {
			return err
		}
		fmt.Println(ui.Success("API key stored in keychain"))
		return nil
	},
}

var configSetTelegramCmd = &cobra.Command{
	Use:   "set-telegram <chat-id> [bot-token]",
	Short: "Configure Telegram notifications",
	Long: `Set the Telegram chat ID for registry notifications. When a bot token
is given it is stored in the OS keychain; otherwise the ` + "`TELEGRAM_BOT_TOKEN`" + `
env var is used at send time.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.TelegramChatID = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		if len(args) == 2 {
			if err := keystore.Default().Store(keystore.KeyTelegramToken, args[1]); err != nil {
				return err
			}
			fmt.Println(ui.Success("Bot token stored in keychain"))
		}
		fmt.Println(ui.Success(fmt.Sprintf("Telegram chat ID set to %q", args[0])))
		return nil
	},
}

func init() {
	configCmd.AddCommand(
		configShowCmd,
		configSetEndpointCmd,
		configSetOutputDirCmd,
		configSetAPIKeyCmd,
		configSetTelegramCmd,
	)
}
