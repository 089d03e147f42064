// Package model provides the shared estimator plumbing: fitted-state
// tracking and the interfaces every estimator in the library implements.
package model

// EstimatorState represents the training state of a model.
type EstimatorState int

const (
	// NotFitted means the model has not been trained.
	NotFitted EstimatorState = iota
	// Fitted means the model has been trained.
	Fitted
)

// BaseEstimator is embedded by every estimator. It tracks whether Fit has
// completed successfully; estimators must not expose fitted attributes or
// accept Predict/Transform calls before that.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model has been fitted.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the model to the not-fitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
