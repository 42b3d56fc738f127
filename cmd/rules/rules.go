// Package rules handles the rule inspection command.
package rules

import (
	"fmt"

	"fjacquet/csv-classify/cmd/root"
	rulecompile "fjacquet/csv-classify/internal/rules"

	"github.com/spf13/cobra"
)

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "List the compiled rule set in evaluation order",
	Long: `Rules compiles the rule file and prints the active set in the order the
classifier evaluates it, followed by any patterns that failed to compile.`,
	Run: rulesFunc,
}

func rulesFunc(cmd *cobra.Command, args []string) {
	st, _, err := root.Bootstrap()
	if err != nil {
		root.Log.Fatalf("Error loading rules: %v", err)
	}

	defs, err := st.LoadRules(cmd.Context())
	if err != nil {
		root.Log.Fatalf("Error loading rules: %v", err)
	}

	set, failed := rulecompile.Compile(defs)
	for _, r := range set.Rules() {
		fmt.Printf("%4d  priority=%-4d %-14s %s\n", r.RuleID, r.Priority, r.Target, r.Pattern)
	}
	if len(set.Rules()) == 0 {
		fmt.Println("no active rules")
	}
	for _, f := range failed {
		root.Log.Warnf("Rule pattern %q failed to compile: %s", f.Pattern, f.Error)
	}
}
