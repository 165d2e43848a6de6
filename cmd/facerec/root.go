package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Pranayyadav/face-recognition/pkg/log"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "facerec",
	Short: "Statistical face recognition from the command line",
	Long: `facerec trains eigenface-style recognition models (PCA, LDA, ICA)
on a directory of labeled images and classifies unseen images by
nearest neighbor in the learned feature space.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetupLogger(logLevel)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}
