package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/txscout/txscout/internal/config"
	"github.com/txscout/txscout/internal/helius"
	"github.com/txscout/txscout/internal/keystore"
	"github.com/txscout/txscout/internal/store"
	"github.com/txscout/txscout/internal/ui"
)

var (
	fetchOut    string
	fetchAPIKey string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <signature> [<signature>...]",
	Short: "Fetch parsed transactions and save them as JSON files",
	Long: `Fetch looks up one or more transaction signatures against the
enriched-transactions API and writes each result to disk.

By default every transaction becomes <output-dir>/<signature>.json. With
exactly one signature, -o may name a .json file to write instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sigs := dedup(args)

		apiKey, err := config.ResolveAPIKey(fetchAPIKey, keystore.Default())
		if err != nil {
			return err
		}

		out := fetchOut
		if out == "" {
			out = cfg.OutputDir
		}
		sink, err := store.NewSink(out, len(sigs))
		if err != nil {
			return err
		}

		client := helius.NewClient(cfg.Endpoint, apiKey)
		if verbose {
			fmt.Println(ui.Meta(fmt.Sprintf("Endpoint: %s", cfg.Endpoint)))
		}

		spin := ui.NewSpinner(fmt.Sprintf("Fetching %d transaction(s)...", len(sigs)))
		spin.Start()
		txs, err := client.FetchTransactions(sigs)
		spin.Stop()
		if err != nil {
			return err
		}

		returned := make(map[string]bool, len(txs))
		for _, tx := range txs {
			path, err := sink.Write(tx)
			if err != nil {
				return err
			}
			returned[tx.Signature] = true
			fmt.Printf("%s %s %s\n", ui.Success("wrote"), ui.Sig(ui.ShortSig(tx.Signature)), ui.Meta(path))
		}

		for _, sig := range sigs {
			if !returned[sig] {
				fmt.Println(ui.Warn("not returned by API: " + sig))
			}
		}

		if len(txs) == 0 {
			return fmt.Errorf("no transactions returned for %d signature(s)", len(sigs))
		}
		fmt.Println(ui.Meta(fmt.Sprintf("%d of %d transaction(s) saved", len(txs), len(sigs))))
		return nil
	},
}

// dedup collapses repeated signatures, keeping first-seen order.
func dedup(sigs []string) []string {
	seen := make(map[string]struct{}, len(sigs))
	out := make([]string, 0, len(sigs))
	for _, s := range sigs {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "output directory, or a .json file for a single signature (default: config output_dir)")
	fetchCmd.Flags().StringVar(&fetchAPIKey, "api-key", "", "API key (default: env or keychain)")
}
