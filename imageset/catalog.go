package imageset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Pranayyadav/face-recognition/core/parallel"
	"github.com/Pranayyadav/face-recognition/matrix"
	"github.com/Pranayyadav/face-recognition/pkg/errors"
)

// Entry is one catalog record: an integer class id and the image path.
// Insertion order defines the column order of the image matrix, so a
// catalog must never be reordered once built.
type Entry struct {
	Label int
	Name  string
}

// ScanTraining enumerates a training directory into an ordered catalog
// and returns the number of classes. Two layouts are supported:
//
//   - one subdirectory per class, each holding that class's images;
//   - a flat directory where the class of a file is derived from its
//     name by ClassKey (e.g. "s01_3.pgm" belongs to class "s01").
//
// Directories and files are visited in sorted order so the catalog is
// deterministic.
func ScanTraining(path string) ([]Entry, int, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, 0, errors.Wrap(err, "imageset.ScanTraining")
	}

	var dirs, files []string
	for _, de := range dirEntries {
		if de.IsDir() {
			dirs = append(dirs, de.Name())
		} else {
			files = append(files, de.Name())
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	if len(dirs) > 0 {
		var entries []Entry
		for label, dir := range dirs {
			subEntries, err := os.ReadDir(filepath.Join(path, dir))
			if err != nil {
				return nil, 0, errors.Wrap(err, "imageset.ScanTraining")
			}
			var names []string
			for _, de := range subEntries {
				if !de.IsDir() {
					names = append(names, de.Name())
				}
			}
			sort.Strings(names)
			for _, name := range names {
				entries = append(entries, Entry{Label: label, Name: filepath.Join(path, dir, name)})
			}
		}
		if len(entries) == 0 {
			return nil, 0, errors.Wrap(errors.ErrEmptyData, "imageset.ScanTraining")
		}
		return entries, len(dirs), nil
	}

	if len(files) == 0 {
		return nil, 0, errors.Wrap(errors.ErrEmptyData, "imageset.ScanTraining")
	}

	// flat layout: classes derived from filename prefixes
	labels := make(map[string]int)
	var entries []Entry
	for _, name := range files {
		key := ClassKey(name)
		label, ok := labels[key]
		if !ok {
			label = len(labels)
			labels[key] = label
		}
		entries = append(entries, Entry{Label: label, Name: filepath.Join(path, name)})
	}
	return entries, len(labels), nil
}

// ScanFlat enumerates a directory of unlabeled test images into a
// sorted list of paths.
func ScanFlat(path string) ([]string, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrap(err, "imageset.ScanFlat")
	}

	var names []string
	for _, de := range dirEntries {
		if !de.IsDir() {
			names = append(names, filepath.Join(path, de.Name()))
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "imageset.ScanFlat")
	}
	return names, nil
}

// ClassKey derives the class identity of an image from its file name:
// the base name up to the last underscore, or the base name without
// extension when there is no underscore. "s01_3.pgm" and "s01_7.pgm"
// share the key "s01".
func ClassKey(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if idx := strings.LastIndex(base, "_"); idx > 0 {
		return base[:idx]
	}
	return base
}

// SameClass reports whether two image file names belong to the same
// class. Used to score recognition accuracy.
func SameClass(a, b string) bool {
	return ClassKey(a) == ClassKey(b)
}

// ReadMatrix maps a catalog of images to column vectors: an m x n
// matrix with m the pixel count of each image and n the number of
// entries. The images must all share dimensions; the first image sets
// the expected size.
func ReadMatrix(entries []Entry) (*matrix.Matrix, error) {
	if len(entries) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "imageset.ReadMatrix")
	}

	first, err := Read(entries[0].Name)
	if err != nil {
		return nil, err
	}

	t := matrix.New(first.Size(), len(entries))
	if err := ToColumn(t, 0, first); err != nil {
		return nil, err
	}

	// remaining columns are independent; read them in parallel
	var mu sync.Mutex
	var readErr error
	parallel.ParallelizeWithThreshold(len(entries)-1, 16, func(start, end int) {
		for k := start; k < end; k++ {
			col := k + 1
			img, err := Read(entries[col].Name)
			if err == nil {
				err = ToColumn(t, col, img)
			}
			if err != nil {
				mu.Lock()
				if readErr == nil {
					readErr = err
				}
				mu.Unlock()
				return
			}
		}
	})
	if readErr != nil {
		return nil, readErr
	}

	return t, nil
}
