package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pranayyadav/face-recognition/database"
)

var trainCmd = &cobra.Command{
	Use:   "train [training-dir]",
	Short: "Train a recognition model on a directory of labeled images",
	Long: `Train builds the image matrix from a training directory, computes the
mean face and the enabled feature spaces (PCA, LDA, ICA), and writes
the catalog and binary model files.

The training directory either contains one subdirectory per person, or
a flat set of images named like "s01_3.pgm" where the prefix before
the last underscore identifies the person.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
	addAlgorithmFlags(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, catalog, model, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	db := database.New(cfg)
	if err := db.Train(args[0]); err != nil {
		return err
	}
	if err := db.Save(catalog, model); err != nil {
		return err
	}

	fmt.Printf("Trained on %d images (%d classes)\n", len(db.Entries()), db.NumClasses())
	fmt.Printf("Catalog: %s\n", catalog)
	fmt.Printf("Model:   %s\n", model)
	return nil
}
