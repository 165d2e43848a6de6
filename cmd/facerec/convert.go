package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Pranayyadav/face-recognition/imageset"
)

var convertCmd = &cobra.Command{
	Use:   "convert [src-dir] [dst-dir]",
	Short: "Convert a directory of images to uniformly sized grayscale PGM",
	Long: `Convert decodes every image in the source directory (PGM, PPM, PNG,
JPEG, GIF, BMP), scales it to the given size, and writes it to the
destination directory as grayscale PGM. Training and test corpora must
share one image size; convert is the usual way to get there.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().Int("width", 92, "Output image width in pixels")
	convertCmd.Flags().Int("height", 112, "Output image height in pixels")
	convertCmd.Flags().Bool("progress", false, "Render a progress bar")
}

func runConvert(cmd *cobra.Command, args []string) error {
	srcDir, dstDir := args[0], args[1]
	width := mustGetInt(cmd, "width")
	height := mustGetInt(cmd, "height")

	names, err := imageset.ScanFlat(srcDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if mustGetBool(cmd, "progress") {
		bar = progressbar.Default(int64(len(names)), "converting")
	}

	for _, name := range names {
		img, err := imageset.Read(name)
		if err != nil {
			return err
		}
		img, err = imageset.Resize(imageset.Grayscale(img), width, height)
		if err != nil {
			return err
		}

		base := filepath.Base(name)
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".pgm"
		if err := imageset.Write(filepath.Join(dstDir, base), img); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	fmt.Printf("Converted %d images to %dx%d PGM in %s\n", len(names), width, height, dstDir)
	return nil
}
