package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/txscout/txscout/internal/config"
	"github.com/txscout/txscout/internal/helius"
	"github.com/txscout/txscout/internal/keystore"
	"github.com/txscout/txscout/internal/store"
	"github.com/txscout/txscout/internal/ui"
)

var showAPIKey string

var showCmd = &cobra.Command{
	Use:   "show <signature|file.json>",
	Short: "Show a summary of one transaction",
	Long: `Show renders a summary of a single parsed transaction. The argument
is either a path to a saved .json file, a signature already present in the
output directory, or a signature to fetch from the API.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, err := resolveTx(args[0])
		if err != nil {
			return err
		}

		pairs := [][2]string{
			{"Signature", tx.Signature},
			{"Type", tx.Type},
			{"Source", tx.Source},
		}
		if tx.Description != "" {
			pairs = append(pairs, [2]string{"Description", tx.Description})
		}
		pairs = append(pairs,
			[2]string{"Slot", fmt.Sprintf("%d", tx.Slot)},
			[2]string{"Time", ui.FormatTime(tx.Timestamp)},
			[2]string{"Fee", ui.LamportsToSOL(tx.Fee) + " SOL"},
			[2]string{"Fee Payer", tx.FeePayer},
		)
		if ids := tx.ProgramIDs(); len(ids) > 0 {
			pairs = append(pairs, [2]string{"Programs", strings.Join(ids, ", ")})
		}
		for _, nt := range tx.NativeTransfers {
			pairs = append(pairs, [2]string{
				"SOL Transfer",
				fmt.Sprintf("%s → %s  %s SOL", ui.ShortSig(nt.FromUserAccount), ui.ShortSig(nt.ToUserAccount), ui.LamportsToSOL(nt.Amount)),
			})
		}
		for _, tt := range tx.TokenTransfers {
			pairs = append(pairs, [2]string{
				"Token Transfer",
				fmt.Sprintf("%s → %s  %g %s", ui.ShortSig(tt.FromUserAccount), ui.ShortSig(tt.ToUserAccount), tt.TokenAmount, ui.ShortSig(tt.Mint)),
			})
		}
		if tx.Failed() {
			pairs = append(pairs, [2]string{"Status", "FAILED: " + string(tx.TransactionError)})
		}
		pairs = append(pairs, [2]string{"Explorer", "https://solscan.io/tx/" + tx.Signature})

		fmt.Println(ui.KeyValueBlock("Transaction", pairs))
		return nil
	},
}

// resolveTx finds the transaction: explicit file, saved file in the output
// directory, then the API.
func resolveTx(arg string) (*helius.ParsedTransaction, error) {
	if strings.HasSuffix(arg, ".json") {
		return store.LoadFile(arg)
	}

	saved := filepath.Join(cfg.OutputDir, arg+".json")
	if _, err := os.Stat(saved); err == nil {
		return store.LoadFile(saved)
	}

	apiKey, err := config.ResolveAPIKey(showAPIKey, keystore.Default())
	if err != nil {
		return nil, err
	}
	client := helius.NewClient(cfg.Endpoint, apiKey)

	spin := ui.NewSpinner("Fetching transaction...")
	spin.Start()
	txs, err := client.FetchTransactions([]string{arg})
	spin.Stop()
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("transaction not found: %s", arg)
	}
	return txs[0], nil
}

func init() {
	showCmd.Flags().StringVar(&showAPIKey, "api-key", "", "API key (default: env or keychain)")
}
