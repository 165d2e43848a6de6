// Package facerecognition implements statistical face recognition with
// PCA (eigenfaces), LDA (Fisherfaces) and ICA, backed by a column-major
// dense matrix engine built on gonum.
//
// Images are treated as column vectors of a training matrix. The
// database computes the mean face, derives the enabled feature spaces,
// and classifies unseen images by nearest neighbor under a per-space
// distance metric.
//
// # Quick Start
//
//	db := database.New(database.Config{PCA: true})
//	if err := db.Train("./train"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := db.Save("train.catalog", "train.model"); err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := db.Recognize("./test")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range results {
//	    fmt.Printf("%s: %.2f%%\n", r.Algorithm, r.Accuracy)
//	}
//
// # Packages
//
//   - matrix: column-major dense matrices, gonum-backed linear algebra,
//     distance metrics, binary and text persistence
//   - feature: the projection strategies (Identity, PCA, LDA, ICA)
//   - imageset: PGM/PPM codec, common-format decoding, corpus scanning
//   - database: training, persistence and nearest-neighbor recognition
//
// The facerec command in cmd/facerec drives the same pipeline from the
// command line.
package facerecognition
