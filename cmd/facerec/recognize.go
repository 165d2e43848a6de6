package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pranayyadav/face-recognition/database"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize [test-dir]",
	Short: "Classify a directory of images against a trained model",
	Long: `Recognize loads a previously trained model and classifies every image
in the test directory by nearest neighbor, reporting per-algorithm
accuracy. The algorithm flags must match the ones used for training;
the model file layout depends on them.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)
	addAlgorithmFlags(recognizeCmd)
	recognizeCmd.Flags().Bool("verbose", false, "Log every match at debug level")
	recognizeCmd.Flags().Bool("progress", false, "Render a progress bar")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg, catalog, model, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Verbose = mustGetBool(cmd, "verbose")
	cfg.Progress = mustGetBool(cmd, "progress")

	db := database.New(cfg)
	if err := db.Load(catalog, model); err != nil {
		return err
	}

	results, err := db.Recognize(args[0])
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Printf("%-8s %4d / %4d  %6.2f%%\n", r.Algorithm, r.Correct, r.Total, r.Accuracy)
	}
	return nil
}
