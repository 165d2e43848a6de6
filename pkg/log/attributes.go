package log

// Standard attribute keys used across the pipeline's log output.
// A consistent key set keeps training and recognition logs filterable.

// Model and operation context.
const (
	// AlgorithmKey identifies the projection algorithm.
	// Values: "Identity", "PCA", "LDA", "ICA"
	AlgorithmKey = "algorithm"

	// OperationKey specifies the database operation being performed.
	// Values: "train", "save", "load", "recognize"
	OperationKey = "operation"
)

// Corpus shape.
const (
	// ImagesKey is the number of images in the corpus.
	ImagesKey = "data.images"

	// DimensionsKey is the pixel dimensionality of each image vector.
	DimensionsKey = "data.dimensions"

	// ClassesKey is the number of distinct classes in the corpus.
	ClassesKey = "data.classes"
)

// Performance and results.
const (
	// DurationMsKey records the execution time of an operation in
	// milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records a recognition accuracy percentage.
	AccuracyKey = "result.accuracy"

	// MatchKey records the training entry matched by a query image.
	MatchKey = "result.match"
)
