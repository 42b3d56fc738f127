// Package recategorize handles the bulk re-categorization command.
package recategorize

import (
	"fmt"

	"fjacquet/csv-classify/cmd/root"
	"fjacquet/csv-classify/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the recategorize command
var Cmd = &cobra.Command{
	Use:   "recategorize",
	Short: "Re-apply classification to a transaction snapshot",
	Long: `Recategorize rebuilds the rule set and re-runs classification over every
transaction in the snapshot. Manually classified transactions keep their
category and transfer fields; labels are re-applied everywhere.`,
	Run: recategorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.TransactionsFile, "transactions", "t", "", "Transaction snapshot YAML file")
	Cmd.Flags().StringVarP(&root.OutputFile, "output", "o", "", "Write the updated snapshot (defaults to in-place)")
	_ = Cmd.MarkFlagRequired("transactions")
}

func recategorizeFunc(cmd *cobra.Command, args []string) {
	st, driver, err := root.Bootstrap()
	if err != nil {
		root.Log.Fatalf("Error loading rules: %v", err)
	}

	txns, err := store.LoadTransactions(root.TransactionsFile)
	if err != nil {
		root.Log.Fatalf("Error loading transactions: %v", err)
	}
	for _, tx := range txns {
		st.SeedTransaction(tx)
	}

	summary, err := driver.RecategorizeAll(cmd.Context())
	if err != nil {
		root.Log.Fatalf("Re-categorization failed: %v", err)
	}

	fmt.Printf("matched: %d\n", summary.Matched)
	fmt.Printf("changed: %d\n", summary.Changed)
	for _, f := range summary.FailedRules {
		root.Log.Warnf("Rule pattern %q failed to compile: %s", f.Pattern, f.Error)
	}

	output := root.OutputFile
	if output == "" {
		output = root.TransactionsFile
	}
	updated, err := st.LoadAllTransactions(cmd.Context())
	if err != nil {
		root.Log.Fatalf("Error loading updated transactions: %v", err)
	}
	if err := store.SaveTransactions(output, updated); err != nil {
		root.Log.Fatalf("Error writing snapshot: %v", err)
	}
	root.Log.WithField("file", output).Info("Wrote updated snapshot")
}
