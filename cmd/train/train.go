// Package train handles the statistical model training command.
package train

import (
	"os"

	"fjacquet/csv-classify/cmd/root"
	"fjacquet/csv-classify/internal/classify"

	"github.com/spf13/cobra"
)

var outputFile string

// Cmd represents the train command
var Cmd = &cobra.Command{
	Use:   "train",
	Short: "Train the statistical classifier from historical assignments",
	Long: `Train fits the naive bayes fallback on a CSV of historical
(description, category_id) assignments and saves the model to disk.
Pass the saved file to other commands with --model.`,
	Run: trainFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.InputFile, "input", "i", "", "Training CSV file with description and category_id columns")
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "model.bayes", "Model output file")
	_ = Cmd.MarkFlagRequired("input")
}

func trainFunc(cmd *cobra.Command, args []string) {
	file, err := os.Open(root.InputFile)
	if err != nil {
		root.Log.Fatalf("Error opening training file: %v", err)
	}
	defer file.Close()

	model, err := classify.TrainFromCSV(file)
	if err != nil {
		root.Log.Fatalf("Training failed: %v", err)
	}
	if !model.Trained() {
		root.Log.Fatal("Not enough training data: need at least two samples across two categories")
	}

	if err := model.Save(outputFile); err != nil {
		root.Log.Fatalf("Error saving model: %v", err)
	}
	root.Log.WithField("model", outputFile).Info("Model trained and saved")
}
