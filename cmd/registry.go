package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/txscout/txscout/internal/config"
	"github.com/txscout/txscout/internal/keystore"
	"github.com/txscout/txscout/internal/notify"
	"github.com/txscout/txscout/internal/registry"
	"github.com/txscout/txscout/internal/store"
	"github.com/txscout/txscout/internal/ui"
)

var (
	registryDir    string
	registryPath   string
	registryNotify bool
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Track programs seen across saved transactions",
}

var registryUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Scan saved transactions and update the program registry",
	Long: `Update scans every saved transaction file, aggregates the program IDs
their instructions invoke, and merges the result into the registry:
known programs get refreshed counts, new ones join the pending-review
queue. With --notify a Telegram summary is sent when new programs were
found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := registryDir
		if dir == "" {
			dir = cfg.OutputDir
		}
		path := registryPath
		if path == "" {
			path = cfg.RegistryPath
		}

		txs, skipped, err := store.LoadDir(dir)
		if err != nil {
			return err
		}
		if skipped > 0 {
			fmt.Println(ui.Warn(fmt.Sprintf("skipped %d unreadable file(s)", skipped)))
		}

		stats := registry.Collect(txs)
		fmt.Println(ui.Meta(fmt.Sprintf("scanned %d transaction(s), %d distinct program(s)", len(txs), len(stats))))

		reg, err := registry.Load(path)
		if err != nil {
			return err
		}
		newCount := reg.Apply(stats, time.Now())
		if err := reg.Save(path); err != nil {
			return err
		}

		if newCount > 0 {
			fmt.Println(ui.Success(fmt.Sprintf("%d new program(s) pending review", newCount)))
		} else {
			fmt.Println(ui.Meta("no new programs detected"))
		}
		fmt.Println(ui.Meta("registry: " + path))

		if registryNotify && newCount > 0 {
			token := config.ResolveTelegramToken(keystore.Default())
			tg := notify.NewTelegram(token, cfg.TelegramChatID)
			if tg == nil {
				fmt.Println(ui.Warn("Telegram credentials not configured - skipping notification"))
				return nil
			}
			if err := tg.RegistryUpdate(newCount, reg.PendingReview); err != nil {
				return fmt.Errorf("sending notification: %w", err)
			}
			fmt.Println(ui.Success("Telegram notification sent"))
		}
		return nil
	},
}

var registryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List programs pending review",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := registryPath
		if path == "" {
			path = cfg.RegistryPath
		}

		reg, err := registry.Load(path)
		if err != nil {
			return err
		}
		if len(reg.PendingReview) == 0 {
			fmt.Println(ui.Meta("nothing pending review"))
			return nil
		}

		table := ui.NewTable([]ui.Column{
			{Title: "PROGRAM", Width: 44},
			{Title: "TXS", Width: 8},
			{Title: "SOURCES", Width: 28},
			{Title: "DETECTED", Width: 20},
		})
		for _, p := range reg.PendingReview {
			table.AddRow(ui.Row{
				p.ProgramID,
				fmt.Sprintf("%d", p.Count),
				strings.Join(p.Sources, ","),
				p.DetectedAt,
			})
		}

		fmt.Printf("%s\n\n", ui.StyleTitle.Render(fmt.Sprintf("Pending Review (%d)", len(reg.PendingReview))))
		fmt.Print(table.Render())
		return nil
	},
}

func init() {
	registryCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "registry file (default: config registry_path)")
	registryUpdateCmd.Flags().StringVar(&registryDir, "dir", "", "transaction directory to scan (default: config output_dir)")
	registryUpdateCmd.Flags().BoolVar(&registryNotify, "notify", false, "send a Telegram summary when new programs are found")
	registryCmd.AddCommand(registryUpdateCmd, registryShowCmd)
}
