// Package balances contains the settlement command.
package balances

import (
	"fmt"
	"os"

	"billbuddy/statements/cmd/root"
	"billbuddy/statements/internal/export"
	"billbuddy/statements/internal/ledger"
	"billbuddy/statements/internal/models"

	"github.com/spf13/cobra"
)

var (
	inputFile string
	settle    bool
)

// Cmd is the balances command. It reads a transactions JSON file (the
// shape written by parse --format json, or a bare transaction array) and
// folds the splits into per-person balances.
var Cmd = &cobra.Command{
	Use:   "balances",
	Short: "Compute per-person net balances from split transactions.",
	RunE:  run,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Transactions JSON file (required)")
	Cmd.Flags().BoolVar(&settle, "settle", false, "Also print a suggested repayment plan")
	_ = Cmd.MarkFlagRequired("input")
}

type balancesOutput struct {
	Balances    map[string]string   `json:"balances"`
	Settlements []ledger.Settlement `json:"settlements,omitempty"`
}

func run(cmd *cobra.Command, args []string) error {
	txs, err := readTransactions(inputFile)
	if err != nil {
		return err
	}

	bal := ledger.Compute(txs, root.Log)

	out := balancesOutput{Balances: make(map[string]string, len(bal))}
	for _, name := range bal.People() {
		out.Balances[name] = bal[name].StringFixed(2)
	}
	if settle {
		out.Settlements = bal.Settle()
	}
	return export.WriteJSON(cmd.OutOrStdout(), out)
}

func readTransactions(path string) ([]models.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transactions file: %w", err)
	}
	txs, err := export.DecodeTransactions(data)
	if err != nil {
		return nil, fmt.Errorf("parsing transactions file: %w", err)
	}
	return txs, nil
}
