package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/txscout/txscout/internal/store"
	"github.com/txscout/txscout/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [dir]",
	Short: "Browse saved transactions interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.OutputDir
		if len(args) == 1 {
			dir = args[0]
		}

		txs, skipped, err := store.LoadDir(dir)
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Println(ui.Warn("no saved transactions in " + dir))
			return nil
		}
		if skipped > 0 && verbose {
			fmt.Println(ui.Meta(fmt.Sprintf("skipped %d unreadable file(s)", skipped)))
		}

		// Newest first.
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Timestamp > txs[j].Timestamp
		})

		table := ui.NewTable([]ui.Column{
			{Title: "SIGNATURE", Width: 16},
			{Title: "TYPE", Width: 18},
			{Title: "SOURCE", Width: 16},
			{Title: "TIME", Width: 19},
			{Title: "FEE (SOL)", Width: 12},
		})
		rows := make([]ui.TxRow, 0, len(txs))
		for _, tx := range txs {
			table.AddRow(ui.Row{
				ui.ShortSig(tx.Signature),
				tx.Type,
				tx.Source,
				ui.FormatTime(tx.Timestamp),
				ui.LamportsToSOL(tx.Fee),
			})
			rows = append(rows, ui.TxRow{
				Signature:   tx.Signature,
				ExplorerURL: "https://solscan.io/tx/" + tx.Signature,
			})
		}

		title := ui.StyleTitle.Render(fmt.Sprintf("Saved Transactions (%d)", len(txs)))
		return ui.RunTxList(title, table, rows)
	},
}
