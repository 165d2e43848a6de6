package model

// EstimatorState represents the training state of a model.
type EstimatorState int

const (
	// NotFitted means the model has not been trained or loaded yet.
	NotFitted EstimatorState = iota
	// Fitted means the model has been trained or loaded.
	Fitted
)

// BaseEstimator is embedded by every trainable component. It tracks
// whether the model has been populated by Train or Load, which are
// mutually exclusive paths producing the same model shape.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model has been trained or loaded.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as trained.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the model to its initial state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
