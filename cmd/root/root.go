// Package root contains the root command and the wiring shared by all
// subcommands.
package root

import (
	"fmt"
	"os"

	"fjacquet/csv-classify/internal/classify"
	"fjacquet/csv-classify/internal/config"
	"fjacquet/csv-classify/internal/logging"
	"fjacquet/csv-classify/internal/recat"
	"fjacquet/csv-classify/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "csv-classify",
		Short: "A CLI tool to import bank statement CSV files and categorize transactions.",
		Long: `csv-classify imports bank statement CSV exports through column-mapping
profiles and assigns each transaction a category, an optional transfer
link, and labels, using exact matches, prioritized regex rules, and an
optional statistical classifier.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to csv-classify!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to load configuration: %v", err)
			}
			Cfg = cfg
			Log = config.ConfigureLogging(cfg)
			logging.SetDefault(logging.NewLogrusAdapterFromLogger(Log))

			if RulesFile == "" {
				RulesFile = cfg.Files.Rules
			}
		},
	}

	// Flags shared across commands
	RulesFile        string
	ModelFile        string
	Description      string
	InputFile        string
	ProfileFile      string
	OutputFile       string
	TransactionsFile string
	AccountID        int64
)

// Init initializes the root command and its persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVar(&RulesFile, "rules", "", "Rule definitions YAML file (default from config)")
	Cmd.PersistentFlags().StringVar(&ModelFile, "model", "", "Trained classifier model file (optional)")
}

// Bootstrap loads the rule file into a fresh in-memory store and builds
// the re-categorization driver around it. Every command works against its
// own snapshot; reloading rules means bootstrapping again.
func Bootstrap() (*store.MemoryStore, *recat.Driver, error) {
	logger := logging.NewLogrusAdapterFromLogger(Log)

	defs, exact, err := store.NewRuleFile(RulesFile, logger).Load()
	if err != nil {
		return nil, nil, err
	}

	st := store.NewMemoryStore()
	st.ReplaceRules(defs)

	var model *classify.Model
	if ModelFile != "" {
		if _, statErr := os.Stat(ModelFile); statErr == nil {
			model, err = classify.LoadModel(ModelFile)
			if err != nil {
				return nil, nil, fmt.Errorf("error loading model: %w", err)
			}
			Log.WithField("model", ModelFile).Info("Loaded statistical classifier")
		} else {
			Log.WithField("model", ModelFile).Warn("Model file not found, statistical layer disabled")
		}
	}

	driver := recat.NewDriver(st, model, exact, Cfg.Classification.ConfidenceThreshold, logger)
	return st, driver, nil
}
