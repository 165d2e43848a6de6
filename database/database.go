// Package database implements the trained face recognition model and
// the operations that drive it: training on a labeled image corpus,
// persistence to a catalog file plus a binary model file, and
// nearest-neighbor recognition of unseen images.
package database

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Pranayyadav/face-recognition/core/model"
	"github.com/Pranayyadav/face-recognition/feature"
	"github.com/Pranayyadav/face-recognition/imageset"
	"github.com/Pranayyadav/face-recognition/matrix"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
	"github.com/Pranayyadav/face-recognition/pkg/log"
)

// Config selects the projection algorithms a Database trains and
// recognizes with, plus their hyperparameters. The enabled set is part
// of the persistence contract: the binary model file contains one
// block per enabled algorithm with no self-description, so a model
// must be loaded with the same configuration it was saved with.
type Config struct {
	// PCA, LDA and ICA enable the corresponding algorithms. When none
	// is enabled the database falls back to the identity baseline,
	// matching raw mean-centered images.
	PCA bool
	LDA bool
	ICA bool

	// PCAComponents caps the eigenface subspace; 0 keeps all
	// significant directions.
	PCAComponents int

	// LDAPCAComponents and LDAComponents are the discriminant
	// analysis knobs; 0 selects the classic defaults.
	LDAPCAComponents int
	LDAComponents    int

	// Seed fixes the ICA block shuffling.
	Seed int64

	// Verbose enables the per-image match trace at debug level.
	Verbose bool

	// Progress renders a progress bar over the recognition loop.
	Progress bool
}

// algorithm pairs an extractor with its projected training matrix.
type algorithm struct {
	extractor feature.Extractor
	projected *matrix.Matrix

	// persisted algorithms are written to / read from the model file;
	// reported ones take part in recognition. The PCA block is
	// persisted whenever any subspace algorithm is enabled, because
	// LDA and ICA are derived from it, but it is only reported when
	// PCA recognition was requested.
	persisted bool
	reported  bool
}

// Database owns the trained model: the mean face, one transform and
// projected training matrix per enabled algorithm, and the image
// catalog. The model is populated exactly once, by Train or by Load,
// and is read-only during recognition.
type Database struct {
	model.BaseEstimator

	cfg           Config
	entries       []imageset.Entry
	numClasses    int
	numDimensions int
	mean          *matrix.Matrix
	algorithms    []*algorithm
}

// New constructs an empty database for the given configuration.
func New(cfg Config) *Database {
	db := &Database{cfg: cfg}

	anySubspace := cfg.PCA || cfg.LDA || cfg.ICA
	if !anySubspace {
		// the identity extractor owns no transform, so its block in the
		// model file is just the projected (centered) training matrix
		db.algorithms = []*algorithm{{
			extractor: feature.NewIdentity(),
			persisted: true,
			reported:  true,
		}}
		return db
	}

	pca := feature.NewPCA(cfg.PCAComponents)
	db.algorithms = append(db.algorithms, &algorithm{
		extractor: pca,
		persisted: true,
		reported:  cfg.PCA,
	})
	if cfg.LDA {
		db.algorithms = append(db.algorithms, &algorithm{
			extractor: feature.NewLDA(pca, cfg.LDAPCAComponents, cfg.LDAComponents),
			persisted: true,
			reported:  true,
		})
	}
	if cfg.ICA {
		db.algorithms = append(db.algorithms, &algorithm{
			extractor: feature.NewICA(pca, cfg.Seed),
			persisted: true,
			reported:  true,
		})
	}
	return db
}

// Train scans a directory of labeled training images, builds the image
// matrix, computes the mean face, and derives every enabled
// algorithm's transform and projected training matrix. PCA is computed
// first; LDA and ICA build on its basis.
func (db *Database) Train(path string) error {
	if db.IsFitted() {
		return errors.NewModelError("Database.Train", "model already populated", nil)
	}

	start := time.Now()

	entries, numClasses, err := imageset.ScanTraining(path)
	if err != nil {
		return err
	}

	x, err := imageset.ReadMatrix(entries)
	if err != nil {
		return err
	}

	db.entries = entries
	db.numClasses = numClasses
	db.numDimensions = x.Rows
	db.mean = x.MeanColumn()
	if err := x.SubtractColumns(db.mean); err != nil {
		return err
	}

	labels := make([]int, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}

	for _, alg := range db.algorithms {
		slog.Debug("computing representation",
			log.OperationKey, "train",
			log.AlgorithmKey, alg.extractor.Name())

		if err := alg.extractor.Compute(x, labels, numClasses); err != nil {
			return err
		}
		proj, err := alg.extractor.Project(x)
		if err != nil {
			return err
		}
		alg.projected = proj
	}

	db.SetFitted()

	slog.Info("training complete",
		log.OperationKey, "train",
		log.ImagesKey, len(entries),
		log.DimensionsKey, db.numDimensions,
		log.ClassesKey, numClasses,
		log.DurationMsKey, time.Since(start).Milliseconds())

	return nil
}

// Save persists the catalog as "label name" lines and the model as a
// fixed sequence of binary matrix records: the mean face, then for
// each persisted algorithm its transform matrices followed by its
// projected training matrix. The order is significant and not
// self-describing.
func (db *Database) Save(catalogPath, modelPath string) error {
	if !db.IsFitted() {
		return errors.NewNotFittedError("Database", "Save")
	}

	catalog, err := os.Create(catalogPath)
	if err != nil {
		return errors.Wrap(err, "Database.Save: catalog")
	}
	defer catalog.Close()

	cw := bufio.NewWriter(catalog)
	for _, e := range db.entries {
		if _, err := fmt.Fprintf(cw, "%d %s\n", e.Label, e.Name); err != nil {
			return errors.Wrap(err, "Database.Save: catalog")
		}
	}
	if err := cw.Flush(); err != nil {
		return errors.Wrap(err, "Database.Save: catalog")
	}

	modelFile, err := os.Create(modelPath)
	if err != nil {
		return errors.Wrap(err, "Database.Save: model")
	}
	defer modelFile.Close()

	mw := bufio.NewWriter(modelFile)
	if err := db.mean.WriteBinary(mw); err != nil {
		return err
	}
	for _, alg := range db.algorithms {
		if !alg.persisted {
			continue
		}
		if err := alg.extractor.Save(mw); err != nil {
			return err
		}
		if err := alg.projected.WriteBinary(mw); err != nil {
			return err
		}
	}
	return errors.Wrap(mw.Flush(), "Database.Save: model")
}

// Load restores a model saved by a database with the same enabled
// algorithms. Image count and dimensionality are derived from the
// loaded matrices, never stored separately.
func (db *Database) Load(catalogPath, modelPath string) error {
	if db.IsFitted() {
		return errors.NewModelError("Database.Load", "model already populated", nil)
	}

	entries, numClasses, err := readCatalog(catalogPath)
	if err != nil {
		return err
	}
	db.entries = entries
	db.numClasses = numClasses

	modelFile, err := os.Open(modelPath)
	if err != nil {
		return errors.Wrap(err, "Database.Load: model")
	}
	defer modelFile.Close()

	mr := bufio.NewReader(modelFile)
	mean, err := matrix.ReadBinary(mr)
	if err != nil {
		return err
	}
	db.mean = mean
	db.numDimensions = mean.Rows

	for _, alg := range db.algorithms {
		if !alg.persisted {
			continue
		}
		if err := alg.extractor.Load(mr); err != nil {
			return err
		}
		proj, err := matrix.ReadBinary(mr)
		if err != nil {
			return err
		}
		alg.projected = proj
	}

	db.SetFitted()

	slog.Info("model loaded",
		log.OperationKey, "load",
		log.ImagesKey, len(entries),
		log.DimensionsKey, db.numDimensions,
		log.ClassesKey, numClasses)

	return nil
}

// readCatalog parses "label name" lines into an ordered catalog and
// derives the class count from the distinct labels.
func readCatalog(path string) ([]imageset.Entry, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, errors.Wrap(err, "database.readCatalog")
	}
	defer f.Close()

	var entries []imageset.Entry
	classes := make(map[int]struct{})

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			return nil, 0, errors.NewValidationError("catalog", "expected \"label name\" line", line)
		}
		label, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, 0, errors.Wrap(err, "database.readCatalog: label")
		}
		entries = append(entries, imageset.Entry{Label: label, Name: parts[1]})
		classes[label] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "database.readCatalog")
	}
	if len(entries) == 0 {
		return nil, 0, errors.Wrap(errors.ErrEmptyData, "database.readCatalog")
	}

	return entries, len(classes), nil
}

// Entries returns the image catalog.
func (db *Database) Entries() []imageset.Entry {
	return db.entries
}

// NumClasses returns the number of classes in the catalog.
func (db *Database) NumClasses() int {
	return db.numClasses
}

// Mean returns the mean face column vector.
func (db *Database) Mean() *matrix.Matrix {
	return db.mean
}
