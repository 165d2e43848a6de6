package database

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Pranayyadav/face-recognition/imageset"
	"github.com/Pranayyadav/face-recognition/matrix"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

const (
	corpusWidth  = 4
	corpusHeight = 4
)

// writeFace writes a synthetic 4x4 PGM: the class base pattern plus a
// little per-image noise. Patterns are far apart compared to the noise,
// so nearest neighbor should always land in the right class.
func writeFace(t *testing.T, path string, pattern []uint8, rng *rand.Rand) {
	t.Helper()
	img := &imageset.Image{
		Channels: 1,
		Height:   corpusHeight,
		Width:    corpusWidth,
		Pixels:   make([]uint8, corpusHeight*corpusWidth),
	}
	for p := range img.Pixels {
		img.Pixels[p] = pattern[p] + uint8(rng.Intn(7))
	}
	require.NoError(t, imageset.Write(path, img))
}

// buildCorpus lays out a flat training directory with three classes of
// three images each, and a test directory with one unseen image per
// class. Each class gets its own random base pattern, so the classes
// differ in direction and not just brightness. Flat naming ties test
// images to their classes by prefix.
func buildCorpus(t *testing.T) (trainDir, testDir string) {
	t.Helper()
	trainDir = t.TempDir()
	testDir = t.TempDir()
	rng := rand.New(rand.NewSource(11))

	for _, class := range []string{"s01", "s02", "s03"} {
		pattern := make([]uint8, corpusHeight*corpusWidth)
		for p := range pattern {
			pattern[p] = uint8(20 + rng.Intn(210))
		}
		for i := 1; i <= 3; i++ {
			writeFace(t, filepath.Join(trainDir, fmt.Sprintf("%s_%d.pgm", class, i)), pattern, rng)
		}
		writeFace(t, filepath.Join(testDir, class+"_9.pgm"), pattern, rng)
	}
	return trainDir, testDir
}

func configs() map[string]Config {
	return map[string]Config{
		"identity baseline": {},
		"pca only":          {PCA: true},
		"all algorithms":    {PCA: true, LDA: true, ICA: true, PCAComponents: 5, Seed: 1},
	}
}

func TestTrainAndRecognize(t *testing.T) {
	trainDir, testDir := buildCorpus(t)

	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			db := New(cfg)
			require.NoError(t, db.Train(trainDir))
			require.True(t, db.IsFitted())
			require.Equal(t, 3, db.NumClasses())
			require.Len(t, db.Entries(), 9)

			results, err := db.Recognize(testDir)
			require.NoError(t, err)
			require.NotEmpty(t, results)

			for _, r := range results {
				require.Equal(t, 3, r.Total, "%s total", r.Algorithm)
				require.Equal(t, 3, r.Correct, "%s should classify the well-separated corpus perfectly", r.Algorithm)
				require.InDelta(t, 100.0, r.Accuracy, 1e-9)
			}
		})
	}
}

func TestRecognizeExactMatches(t *testing.T) {
	trainDir, _ := buildCorpus(t)

	// a test set of byte-identical copies of the training images is at
	// zero distance from its origin under every metric
	testDir := t.TempDir()
	names, err := imageset.ScanFlat(trainDir)
	require.NoError(t, err)
	for _, name := range names {
		data, err := os.ReadFile(name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(testDir, filepath.Base(name)), data, 0o644))
	}

	db := New(Config{PCA: true, LDA: true, ICA: true, PCAComponents: 5, Seed: 1})
	require.NoError(t, db.Train(trainDir))

	results, err := db.Recognize(testDir)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.Equal(t, len(names), r.Correct, "%s must match every duplicated image", r.Algorithm)
	}
}

func TestReportedAlgorithms(t *testing.T) {
	trainDir, testDir := buildCorpus(t)

	// LDA implies a PCA layer internally, but only LDA is reported
	db := New(Config{LDA: true, PCAComponents: 5})
	require.NoError(t, db.Train(trainDir))

	results, err := db.Recognize(testDir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "LDA", results[0].Algorithm)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	trainDir, testDir := buildCorpus(t)

	for name, cfg := range configs() {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			catalogPath := filepath.Join(dir, "train.catalog")
			modelPath := filepath.Join(dir, "train.model")

			db := New(cfg)
			require.NoError(t, db.Train(trainDir))
			require.NoError(t, db.Save(catalogPath, modelPath))

			trained, err := db.Recognize(testDir)
			require.NoError(t, err)

			loaded := New(cfg)
			require.NoError(t, loaded.Load(catalogPath, modelPath))
			require.Equal(t, db.NumClasses(), loaded.NumClasses())
			require.Equal(t, db.Entries(), loaded.Entries())
			require.True(t, loaded.Mean().ApproxEqual(db.Mean(), 0))

			reloaded, err := loaded.Recognize(testDir)
			require.NoError(t, err)
			require.Equal(t, trained, reloaded)
		})
	}
}

func TestCatalogFormat(t *testing.T) {
	trainDir, _ := buildCorpus(t)
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "train.catalog")
	modelPath := filepath.Join(dir, "train.model")

	db := New(Config{PCA: true})
	require.NoError(t, db.Train(trainDir))
	require.NoError(t, db.Save(catalogPath, modelPath))

	f, err := os.Open(catalogPath)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines int
	for scanner.Scan() {
		var label int
		var name string
		_, err := fmt.Sscanf(scanner.Text(), "%d %s", &label, &name)
		require.NoError(t, err, "catalog line %q", scanner.Text())
		require.Equal(t, db.Entries()[lines].Label, label)
		require.Equal(t, db.Entries()[lines].Name, name)
		lines++
	}
	require.NoError(t, scanner.Err())
	require.Equal(t, len(db.Entries()), lines)
}

func TestModelFileLayout(t *testing.T) {
	trainDir, _ := buildCorpus(t)
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "train.catalog")
	modelPath := filepath.Join(dir, "train.model")

	db := New(Config{PCA: true})
	require.NoError(t, db.Train(trainDir))
	require.NoError(t, db.Save(catalogPath, modelPath))

	f, err := os.Open(modelPath)
	require.NoError(t, err)
	defer f.Close()

	// mean face first: pixels x 1
	mean, err := matrix.ReadBinary(f)
	require.NoError(t, err)
	require.Equal(t, corpusWidth*corpusHeight, mean.Rows)
	require.Equal(t, 1, mean.Cols)
	require.True(t, mean.ApproxEqual(db.Mean(), 0))

	// then the PCA transform, its eigenvalue diagonal, and the
	// projected training matrix, in that order
	w, err := matrix.ReadBinary(f)
	require.NoError(t, err)
	require.Equal(t, corpusWidth*corpusHeight, w.Rows)

	d, err := matrix.ReadBinary(f)
	require.NoError(t, err)
	require.Equal(t, w.Cols, d.Rows)
	require.Equal(t, w.Cols, d.Cols)

	p, err := matrix.ReadBinary(f)
	require.NoError(t, err)
	require.Equal(t, w.Cols, p.Rows)
	require.Equal(t, len(db.Entries()), p.Cols)

	// nothing after the last record
	_, err = matrix.ReadBinary(f)
	require.Error(t, err)
}

func TestLoadWithMismatchedConfig(t *testing.T) {
	trainDir, _ := buildCorpus(t)
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "train.catalog")
	modelPath := filepath.Join(dir, "train.model")

	db := New(Config{PCA: true})
	require.NoError(t, db.Train(trainDir))
	require.NoError(t, db.Save(catalogPath, modelPath))

	// a PCA-only model file has no LDA block to read
	wrong := New(Config{PCA: true, LDA: true})
	err := wrong.Load(catalogPath, modelPath)
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrTruncatedRecord)
}

func TestLifecycleErrors(t *testing.T) {
	trainDir, testDir := buildCorpus(t)

	t.Run("recognize before train", func(t *testing.T) {
		db := New(Config{PCA: true})
		_, err := db.Recognize(testDir)
		require.Error(t, err)
	})

	t.Run("save before train", func(t *testing.T) {
		db := New(Config{PCA: true})
		dir := t.TempDir()
		err := db.Save(filepath.Join(dir, "c"), filepath.Join(dir, "m"))
		require.Error(t, err)
	})

	t.Run("train twice", func(t *testing.T) {
		db := New(Config{PCA: true})
		require.NoError(t, db.Train(trainDir))
		require.Error(t, db.Train(trainDir))
	})

	t.Run("load after train", func(t *testing.T) {
		dir := t.TempDir()
		catalogPath := filepath.Join(dir, "c")
		modelPath := filepath.Join(dir, "m")

		db := New(Config{PCA: true})
		require.NoError(t, db.Train(trainDir))
		require.NoError(t, db.Save(catalogPath, modelPath))
		require.Error(t, db.Load(catalogPath, modelPath))
	})
}

func TestNearestNeighbor(t *testing.T) {
	p, _ := matrix.NewFromRows(2, 3, []float64{
		1, 5, 1,
		1, 5, 1,
	})
	q, _ := matrix.NewFromRows(2, 1, []float64{1, 1})

	// columns 0 and 2 are equally distant; the lower index wins
	if idx := nearestNeighbor(p, q, 0, matrix.SquaredEuclidean); idx != 0 {
		t.Errorf("nearestNeighbor = %d, want 0", idx)
	}

	empty := matrix.New(2, 0)
	if idx := nearestNeighbor(empty, q, 0, matrix.SquaredEuclidean); idx != -1 {
		t.Errorf("nearestNeighbor on empty set = %d, want -1", idx)
	}
}

func TestReadCatalogErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, _, err := readCatalog(filepath.Join(dir, "absent"))
		require.Error(t, err)
	})

	t.Run("malformed line", func(t *testing.T) {
		path := filepath.Join(dir, "bad.catalog")
		require.NoError(t, os.WriteFile(path, []byte("notanumber\n"), 0o644))
		_, _, err := readCatalog(path)
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.catalog")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
		_, _, err := readCatalog(path)
		require.Error(t, err)
	})
}
