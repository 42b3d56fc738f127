// Package classify handles the single-description classification command.
package classify

import (
	"fmt"

	"fjacquet/csv-classify/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single transaction description",
	Long: `Classify runs one description through the waterfall (exact match,
prioritized regex rules, statistical fallback) and prints the decision.`,
	Run: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Description, "description", "d", "", "Transaction description to classify")
	_ = Cmd.MarkFlagRequired("description")
}

func classifyFunc(cmd *cobra.Command, args []string) {
	_, driver, err := root.Bootstrap()
	if err != nil {
		root.Log.Fatalf("Error loading rules: %v", err)
	}

	engine, failed, err := driver.BuildEngine(cmd.Context())
	if err != nil {
		root.Log.Fatalf("Error building classification engine: %v", err)
	}
	for _, f := range failed {
		root.Log.Warnf("Rule pattern %q failed to compile: %s", f.Pattern, f.Error)
	}

	result := engine.Classify(root.Description)
	labels := engine.ExtractLabels(root.Description)

	fmt.Printf("target:     %s\n", result.Target)
	fmt.Printf("source:     %s\n", result.Source)
	fmt.Printf("confidence: %.2f\n", result.Confidence)
	if len(labels) > 0 {
		fmt.Printf("labels:     %v\n", labels)
	}
}
