package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/example/chainblock/pkg/transaction"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func (a *app) printTransactions(cmd *cobra.Command, txs []transaction.Transaction) error {
	out := cmd.OutOrStdout()
	if a.output == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(txs)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tFROM\tTO\tAMOUNT")
	for _, tx := range txs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Status, tx.From, tx.To, formatAmount(tx.Amount))
	}
	return w.Flush()
}

func (a *app) printNames(cmd *cobra.Command, names []string) error {
	out := cmd.OutOrStdout()
	if a.output == outputJSON {
		return json.NewEncoder(out).Encode(names)
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}

// formatAmount renders an amount with exactly two decimal places
func formatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
