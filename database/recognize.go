package database

import (
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Pranayyadav/face-recognition/core/parallel"
	"github.com/Pranayyadav/face-recognition/imageset"
	"github.com/Pranayyadav/face-recognition/matrix"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
	"github.com/Pranayyadav/face-recognition/pkg/log"
)

// Result is the recognition outcome of one algorithm over a test set.
type Result struct {
	Algorithm string
	Correct   int
	Total     int

	// Accuracy is Correct/Total as a percentage.
	Accuracy float64
}

// Recognize classifies every image in a test directory against the
// trained model and returns one Result per enabled algorithm. A test
// image is correct when its nearest training neighbor, under the
// algorithm's distance metric, shares its class. Test images must have
// the training dimensionality.
func (db *Database) Recognize(path string) ([]Result, error) {
	if !db.IsFitted() {
		return nil, errors.NewNotFittedError("Database", "Recognize")
	}

	start := time.Now()

	names, err := imageset.ScanFlat(path)
	if err != nil {
		return nil, err
	}

	testEntries := make([]imageset.Entry, len(names))
	for i, name := range names {
		testEntries[i] = imageset.Entry{Label: -1, Name: name}
	}
	t, err := imageset.ReadMatrix(testEntries)
	if err != nil {
		return nil, err
	}
	if err := t.SubtractColumns(db.mean); err != nil {
		return nil, errors.Wrap(err, "Database.Recognize: test images do not match the training dimensionality")
	}

	var reported []*algorithm
	for _, alg := range db.algorithms {
		if alg.reported {
			reported = append(reported, alg)
		}
	}

	var bar *progressbar.ProgressBar
	if db.cfg.Progress {
		bar = progressbar.Default(int64(len(names)*len(reported)), "recognizing")
	}

	results := make([]Result, 0, len(reported))
	for _, alg := range reported {
		name := alg.extractor.Name()

		proj, err := alg.extractor.Project(t)
		if err != nil {
			return nil, err
		}
		dist := alg.extractor.Distance()

		// columns are independent given the read-only model; count
		// matches per chunk and sum the partials
		correct := parallel.SumInts(proj.Cols, func(begin, end int) int {
			matched := 0
			for j := begin; j < end; j++ {
				idx := nearestNeighbor(alg.projected, proj, j, dist)
				ok := idx >= 0 && imageset.SameClass(db.entries[idx].Name, names[j])
				if ok {
					matched++
				}
				if db.cfg.Verbose {
					match := "(none)"
					if idx >= 0 {
						match = db.entries[idx].Name
					}
					slog.Debug("nearest neighbor",
						log.AlgorithmKey, name,
						"image", names[j],
						log.MatchKey, match,
						"correct", ok)
				}
				if bar != nil {
					bar.Add(1)
				}
			}
			return matched
		})

		results = append(results, Result{
			Algorithm: name,
			Correct:   correct,
			Total:     len(names),
			Accuracy:  100 * float64(correct) / float64(len(names)),
		})
	}

	for _, r := range results {
		slog.Info("recognition complete",
			log.OperationKey, "recognize",
			log.AlgorithmKey, r.Algorithm,
			log.ImagesKey, r.Total,
			log.AccuracyKey, r.Accuracy,
			log.DurationMsKey, time.Since(start).Milliseconds())
	}

	return results, nil
}

// nearestNeighbor returns the index of the column of p closest to
// column j of q, or -1 when p has no columns. Strict comparison keeps
// the first of equally distant candidates, so ties resolve to the
// lowest index.
func nearestNeighbor(p *matrix.Matrix, q *matrix.Matrix, j int, dist matrix.DistanceFunc) int {
	minIndex := -1
	minDist := 0.0
	for i := 0; i < p.Cols; i++ {
		d := dist(q, j, p, i)
		if minIndex < 0 || d < minDist {
			minIndex = i
			minDist = d
		}
	}
	return minIndex
}
