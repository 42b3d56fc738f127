// Package importcsv handles the CSV statement import command.
package importcsv

import (
	"fmt"
	"os"

	"fjacquet/csv-classify/cmd/root"
	"fjacquet/csv-classify/internal/importer"
	"fjacquet/csv-classify/internal/logging"
	"fjacquet/csv-classify/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a bank statement CSV file",
	Long: `Import reads a bank statement CSV through a column-mapping profile,
classifies every row, and inserts the resulting transactions. Rows already
imported are rejected as duplicates, so re-running an import is safe.`,
	Run: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.InputFile, "input", "i", "", "Input CSV file")
	Cmd.Flags().StringVarP(&root.ProfileFile, "profile", "p", "", "CSV profile YAML file")
	Cmd.Flags().Int64VarP(&root.AccountID, "account-id", "a", 1, "Default account for imported transactions")
	Cmd.Flags().StringVarP(&root.OutputFile, "output", "o", "", "Write the imported transactions to a YAML snapshot")
	_ = Cmd.MarkFlagRequired("input")
	_ = Cmd.MarkFlagRequired("profile")
}

func importFunc(cmd *cobra.Command, args []string) {
	st, driver, err := root.Bootstrap()
	if err != nil {
		root.Log.Fatalf("Error loading rules: %v", err)
	}

	profile, err := store.LoadProfile(root.ProfileFile)
	if err != nil {
		root.Log.Fatalf("Error loading profile: %v", err)
	}

	// Config supplies the defaults a profile does not override.
	if profile.Delimiter == "" {
		profile.Delimiter = root.Cfg.CSV.Delimiter
	}
	if len(profile.ColumnMapping.CreditIndicators) == 0 {
		profile.ColumnMapping.CreditIndicators = root.Cfg.Classification.CreditIndicators
	}
	if len(profile.ColumnMapping.DebitIndicators) == 0 {
		profile.ColumnMapping.DebitIndicators = root.Cfg.Classification.DebitIndicators
	}

	st.AddAccount(root.AccountID, fmt.Sprintf("account-%d", root.AccountID))
	for token, id := range profile.ColumnMapping.AccountMapping {
		st.AddAccount(id, token)
	}

	engine, failed, err := driver.BuildEngine(cmd.Context())
	if err != nil {
		root.Log.Fatalf("Error building classification engine: %v", err)
	}
	for _, f := range failed {
		root.Log.Warnf("Rule pattern %q failed to compile: %s", f.Pattern, f.Error)
	}

	file, err := os.Open(root.InputFile)
	if err != nil {
		root.Log.Fatalf("Error opening input file: %v", err)
	}
	defer file.Close()

	imp := importer.NewImporter(st, engine, logging.NewLogrusAdapterFromLogger(root.Log))
	summary, err := imp.ImportCSV(cmd.Context(), file, profile, root.AccountID)
	if err != nil {
		root.Log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("import:     %s\n", summary.ImportID)
	fmt.Printf("imported:   %d\n", summary.Imported)
	fmt.Printf("duplicates: %d\n", summary.Duplicates)
	fmt.Printf("skipped:    %d\n", summary.Skipped)
	for _, token := range summary.UnmappedAccounts {
		root.Log.Warnf("Account token %q has no mapping in profile %s", token, profile.Name)
	}

	if root.OutputFile != "" {
		txns, err := st.LoadAllTransactions(cmd.Context())
		if err != nil {
			root.Log.Fatalf("Error loading imported transactions: %v", err)
		}
		if err := store.SaveTransactions(root.OutputFile, txns); err != nil {
			root.Log.Fatalf("Error writing snapshot: %v", err)
		}
		root.Log.WithField("file", root.OutputFile).Info("Wrote transaction snapshot")
	}
}
