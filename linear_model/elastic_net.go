// Package linear_model provides scikit-learn-shaped regression estimators
// over the coordinate-descent solver. ElasticNet and Lasso add no
// numerics of their own: they translate their hyperparameter surface into
// a solver configuration and delegate every operation.
package linear_model

import (
	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/native"
	"github.com/Zhylkaaa/cuml/pkg/errors"
	"github.com/Zhylkaaa/cuml/pkg/log"
	"github.com/Zhylkaaa/cuml/solvers"
	"gonum.org/v1/gonum/mat"
)

type config struct {
	alpha        float64
	l1Ratio      float64
	fitIntercept bool
	normalize    bool
	maxIter      int
	tol          float64
	selection    string
	seed         int64
	dtype        cuda.DType
	convert      bool

	handle  *cuda.Handle
	backend native.Backend
	logger  log.Logger
}

// Option configures an ElasticNet or Lasso estimator.
type Option func(*config)

// WithAlpha sets the regularization strength. Zero is rejected: an
// unpenalized fit belongs to an ordinary least-squares solver, and the
// coordinate-descent path is numerically unreliable there.
func WithAlpha(alpha float64) Option {
	return func(c *config) {
		c.alpha = alpha
	}
}

// WithL1Ratio sets the elastic-net mixing parameter in [0, 1]. Lasso
// ignores it; its ratio is pinned to 1.
func WithL1Ratio(ratio float64) Option {
	return func(c *config) {
		c.l1Ratio = ratio
	}
}

// WithFitIntercept sets whether an intercept is fitted.
func WithFitIntercept(fit bool) Option {
	return func(c *config) {
		c.fitIntercept = fit
	}
}

// WithNormalize sets whether features are normalized before fitting.
func WithNormalize(normalize bool) Option {
	return func(c *config) {
		c.normalize = normalize
	}
}

// WithMaxIter sets the maximum number of solver iterations.
func WithMaxIter(maxIter int) Option {
	return func(c *config) {
		c.maxIter = maxIter
	}
}

// WithTol sets the convergence tolerance.
func WithTol(tol float64) Option {
	return func(c *config) {
		c.tol = tol
	}
}

// WithSelection sets the coordinate visiting order, "cyclic" or "random".
// Unrecognized values fail at construction.
func WithSelection(selection string) Option {
	return func(c *config) {
		c.selection = selection
	}
}

// WithSeed sets the random seed used when selection is "random".
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithDType sets the working precision, float32 or float64.
func WithDType(dtype cuda.DType) Option {
	return func(c *config) {
		c.dtype = dtype
	}
}

// WithConvert sets whether float64 host data may be narrowed to a float32
// working precision.
func WithConvert(convert bool) Option {
	return func(c *config) {
		c.convert = convert
	}
}

// WithHandle binds the estimator to an execution handle.
func WithHandle(h *cuda.Handle) Option {
	return func(c *config) {
		c.handle = h
	}
}

// WithBackend pins the native backend instead of using the registry
// default.
func WithBackend(b native.Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// WithLogger replaces the estimator's logger.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func defaultConfig() config {
	return config{
		alpha:        1.0,
		l1Ratio:      0.5,
		fitIntercept: true,
		maxIter:      1000,
		tol:          1e-3,
		selection:    "cyclic",
		seed:         -1,
		dtype:        cuda.Float64,
		convert:      true,
	}
}

// solver validates the shared hyperparameter surface and builds the
// underlying coordinate-descent solver.
func (c config) solver() (*solvers.CD, error) {
	if c.alpha <= 0 {
		return nil, errors.NewValidationError("alpha", "must be positive; use an unpenalized least-squares solver for alpha = 0", c.alpha)
	}
	var shuffle bool
	switch c.selection {
	case "cyclic":
		shuffle = false
	case "random":
		shuffle = true
	default:
		return nil, errors.NewValidationError("selection", `must be "cyclic" or "random"`, c.selection)
	}

	opts := []solvers.Option{
		solvers.WithAlpha(c.alpha),
		solvers.WithL1Ratio(c.l1Ratio),
		solvers.WithFitIntercept(c.fitIntercept),
		solvers.WithNormalize(c.normalize),
		solvers.WithMaxIter(c.maxIter),
		solvers.WithTol(c.tol),
		solvers.WithShuffle(shuffle),
		solvers.WithSeed(c.seed),
		solvers.WithDType(c.dtype),
		solvers.WithConvert(c.convert),
	}
	if c.handle != nil {
		opts = append(opts, solvers.WithHandle(c.handle))
	}
	if c.backend != nil {
		opts = append(opts, solvers.WithBackend(c.backend))
	}
	if c.logger != nil {
		opts = append(opts, solvers.WithLogger(c.logger))
	}
	return solvers.NewCD(opts...)
}

// ElasticNet is linear regression with combined L1 and L2 penalties,
// fitted by the native coordinate-descent solver.
type ElasticNet struct {
	cd *solvers.CD
}

// NewElasticNet constructs an elastic-net regressor. All hyperparameters
// are validated here, not at fit time.
func NewElasticNet(opts ...Option) (*ElasticNet, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	cd, err := c.solver()
	if err != nil {
		return nil, err
	}
	return &ElasticNet{cd: cd}, nil
}

// Fit trains the model on X and y.
func (e *ElasticNet) Fit(X, y mat.Matrix) error {
	return e.cd.Fit(X, y)
}

// FitWeighted trains the model with per-sample weights.
func (e *ElasticNet) FitWeighted(X, y mat.Matrix, sampleWeight []float64) error {
	return e.cd.FitWeighted(X, y, sampleWeight)
}

// Predict applies the fitted model to X.
func (e *ElasticNet) Predict(X mat.Matrix) (mat.Matrix, error) {
	return e.cd.Predict(X)
}

// Coef returns a host copy of the fitted coefficients, or nil before Fit.
func (e *ElasticNet) Coef() []float64 {
	return e.cd.Coef()
}

// Intercept returns the fitted intercept, or 0 before Fit.
func (e *ElasticNet) Intercept() float64 {
	return e.cd.Intercept()
}

// IsFitted reports whether the model has been fitted.
func (e *ElasticNet) IsFitted() bool {
	return e.cd.IsFitted()
}

// Score returns the coefficient of determination on X against y.
func (e *ElasticNet) Score(X, y mat.Matrix) (float64, error) {
	return e.cd.Score(X, y)
}

// Close releases the device-resident fitted state.
func (e *ElasticNet) Close() error {
	return e.cd.Close()
}

// Lasso is linear regression with an L1 penalty: an ElasticNet whose
// mixing ratio is pinned to pure L1.
type Lasso struct {
	ElasticNet
}

// NewLasso constructs a lasso regressor. A WithL1Ratio option is
// overridden; the ratio is part of what Lasso means.
func NewLasso(opts ...Option) (*Lasso, error) {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	c.l1Ratio = 1.0
	cd, err := c.solver()
	if err != nil {
		return nil, err
	}
	return &Lasso{ElasticNet{cd: cd}}, nil
}
