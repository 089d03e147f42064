package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on X and y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that produce predictions.
type Predictor interface {
	// Predict returns predictions for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the coefficient of determination R^2 of the prediction.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// Regressor combines the interfaces of a regression model.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// LinearModel is the interface for fitted linear models.
type LinearModel interface {
	// Coef returns the learned coefficients.
	Coef() []float64
	// Intercept returns the learned intercept.
	Intercept() float64
}
