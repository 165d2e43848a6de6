package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Pranayyadav/face-recognition/database"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// fileConfig is the optional yaml config file. Flags given on the
// command line override its values.
type fileConfig struct {
	PCA bool `yaml:"pca"`
	LDA bool `yaml:"lda"`
	ICA bool `yaml:"ica"`

	PCAComponents    int   `yaml:"pca_components"`
	LDAPCAComponents int   `yaml:"lda_pca_components"`
	LDAComponents    int   `yaml:"lda_components"`
	Seed             int64 `yaml:"seed"`

	Catalog string `yaml:"catalog"`
	Model   string `yaml:"model"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "config file")
	}
	return cfg, nil
}

// addAlgorithmFlags registers the flags shared by train and recognize.
// The same algorithm set must be passed to both: the model file layout
// depends on it.
func addAlgorithmFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to a yaml config file; flags override its values")
	cmd.Flags().Bool("pca", false, "Enable PCA (eigenfaces)")
	cmd.Flags().Bool("lda", false, "Enable LDA (fisherfaces)")
	cmd.Flags().Bool("ica", false, "Enable ICA (independent components)")
	cmd.Flags().Int("pca1", 0, "Number of principal components to keep (0 = all significant)")
	cmd.Flags().Int("lda1", 0, "Number of PCA components LDA works in (0 = images - classes)")
	cmd.Flags().Int("lda2", 0, "Number of discriminant components to keep (0 = classes - 1)")
	cmd.Flags().Int64("seed", 1, "Random seed for ICA block shuffling")
	cmd.Flags().String("catalog", "train.catalog", "Catalog file path")
	cmd.Flags().String("model", "train.model", "Model file path")
}

// resolveConfig merges the config file with the command-line flags into
// a database.Config plus the catalog and model paths.
func resolveConfig(cmd *cobra.Command) (database.Config, string, string, error) {
	file, err := loadFileConfig(mustGetString(cmd, "config"))
	if err != nil {
		return database.Config{}, "", "", err
	}

	cfg := database.Config{
		PCA:              file.PCA,
		LDA:              file.LDA,
		ICA:              file.ICA,
		PCAComponents:    file.PCAComponents,
		LDAPCAComponents: file.LDAPCAComponents,
		LDAComponents:    file.LDAComponents,
		Seed:             file.Seed,
	}
	catalog := file.Catalog
	model := file.Model

	flags := cmd.Flags()
	if flags.Changed("pca") {
		cfg.PCA = mustGetBool(cmd, "pca")
	}
	if flags.Changed("lda") {
		cfg.LDA = mustGetBool(cmd, "lda")
	}
	if flags.Changed("ica") {
		cfg.ICA = mustGetBool(cmd, "ica")
	}
	if flags.Changed("pca1") {
		cfg.PCAComponents = mustGetInt(cmd, "pca1")
	}
	if flags.Changed("lda1") {
		cfg.LDAPCAComponents = mustGetInt(cmd, "lda1")
	}
	if flags.Changed("lda2") {
		cfg.LDAComponents = mustGetInt(cmd, "lda2")
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = mustGetInt64(cmd, "seed")
	}
	if flags.Changed("catalog") || catalog == "" {
		catalog = mustGetString(cmd, "catalog")
	}
	if flags.Changed("model") || model == "" {
		model = mustGetString(cmd, "model")
	}

	return cfg, catalog, model, nil
}
