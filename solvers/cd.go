// Package solvers provides the coordinate-descent solver adapter. The
// solver itself, elastic-net regularized regression by cyclic or shuffled
// coordinate updates, runs in the native library; this adapter validates
// shapes and hyperparameters, stages data onto the device, dispatches the
// precision-specific entry point, and synchronizes before returning.
package solvers

import (
	"github.com/Zhylkaaa/cuml/core/input"
	"github.com/Zhylkaaa/cuml/core/model"
	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/metrics"
	"github.com/Zhylkaaa/cuml/native"
	"github.com/Zhylkaaa/cuml/pkg/errors"
	"github.com/Zhylkaaa/cuml/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// CD is the coordinate-descent solver adapter. Every hyperparameter is
// validated at construction; Fit and Predict validate only data-dependent
// facts. An instance is not safe for concurrent use: bind separate
// instances to separate handles to run models concurrently.
type CD struct {
	model.BaseEstimator

	lossName     string
	loss         native.Loss
	alpha        float64
	l1Ratio      float64
	fitIntercept bool
	normalize    bool
	maxIter      int
	tol          float64
	shuffle      bool
	seed         int64

	dtype   cuda.DType
	convert bool

	handle  *cuda.Handle
	backend native.Backend
	logger  log.Logger

	// Fitted state. The coefficient buffer is device-resident and owned
	// by this instance: replaced on refit, released by Close.
	coef      cuda.Buffer
	intercept float64
	nFeatures int
}

// NewCD constructs a solver. The loss selector and every scalar
// hyperparameter are validated here, not at fit time: a solver that
// constructs successfully will not fail a fit on its configuration.
func NewCD(opts ...Option) (*CD, error) {
	c := &CD{
		lossName:     "squared_loss",
		alpha:        1e-4,
		l1Ratio:      0.15,
		fitIntercept: true,
		maxIter:      1000,
		tol:          1e-3,
		seed:         -1,
		dtype:        cuda.Float64,
		convert:      true,
		logger:       log.GetLoggerWithName("solvers"),
	}
	for _, opt := range opts {
		opt(c)
	}

	loss, err := native.ParseLoss(c.lossName)
	if err != nil {
		return nil, err
	}
	c.loss = loss

	if c.alpha < 0 {
		return nil, errors.NewValidationError("alpha", "must be non-negative", c.alpha)
	}
	if c.l1Ratio < 0 || c.l1Ratio > 1 {
		return nil, errors.NewValidationError("l1_ratio", "must be in [0, 1]", c.l1Ratio)
	}
	if c.maxIter <= 0 {
		return nil, errors.NewValidationError("max_iter", "must be positive", c.maxIter)
	}
	if c.tol < 0 {
		return nil, errors.NewValidationError("tol", "must be non-negative", c.tol)
	}
	if c.dtype != cuda.Float32 && c.dtype != cuda.Float64 {
		return nil, errors.NewValidationError("dtype", "must be float32 or float64", c.dtype.String())
	}
	if c.dtype == cuda.Float32 && !c.convert {
		return nil, errors.NewValidationError("convert", "float32 working precision requires narrowing float64 host data; enable convert", c.convert)
	}

	return c, nil
}

func (c *CD) params() native.CDParams {
	return native.CDParams{
		Loss:         c.loss,
		Alpha:        c.alpha,
		L1Ratio:      c.l1Ratio,
		FitIntercept: c.fitIntercept,
		Normalize:    c.normalize,
		MaxIter:      c.maxIter,
		Tol:          c.tol,
		Shuffle:      c.shuffle,
		Seed:         c.seed,
	}
}

// resolve picks the backend and handle the instance is bound to, lazily on
// first use so that a solver can be constructed before any backend is
// registered.
func (c *CD) resolve(op string) (native.Backend, *cuda.Handle, error) {
	if c.backend == nil {
		backend, err := native.DefaultBackend()
		if err != nil {
			return nil, nil, errors.NewNoBackendError(op)
		}
		c.backend = backend
	}
	if c.handle == nil {
		c.handle = cuda.Default()
	}
	return c.backend, c.handle, nil
}

// Fit trains the solver on X and y. It is a single blocking round trip:
// the call returns only after the native computation has finished and the
// handle's stream is drained.
func (c *CD) Fit(X, y mat.Matrix) error {
	return c.FitWeighted(X, y, nil)
}

// FitWeighted trains the solver with per-sample weights. A nil
// sampleWeight means unweighted; the absence is passed to the native entry
// point as the zero-value buffer. All shape validation happens before any
// device or native work. On failure no fitted state remains.
func (c *CD) FitWeighted(X, y mat.Matrix, sampleWeight []float64) (err error) {
	const op = "CD.Fit"
	defer errors.Recover(&err, op)

	if X == nil || y == nil {
		return errors.NewValueError(op, "X and y must not be nil")
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yCols != 1 {
		return errors.NewValueError(op, "y must have exactly one column")
	}
	if yRows != rows {
		return errors.NewDimensionError(op, rows, yRows, 0)
	}
	if sampleWeight != nil && len(sampleWeight) != rows {
		return errors.NewDimensionError(op, rows, len(sampleWeight), 0)
	}

	backend, h, err := c.resolve(op)
	if err != nil {
		return err
	}

	c.logger.Debug("fit dispatch",
		log.ModelNameKey, "CD",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.DTypeKey, c.dtype.String(),
		log.OrderKey, cuda.ColMajor.String(),
		log.BackendKey, backend.Name(),
	)

	// Staged inputs are borrowed for this one call.
	dX, _, _, err := input.ToDevice(h, X, c.dtype, cuda.ColMajor)
	if err != nil {
		return err
	}
	defer func() { _ = h.Free(dX) }()

	dY, _, err := input.VecToDevice(h, y, c.dtype)
	if err != nil {
		return err
	}
	defer func() { _ = h.Free(dY) }()

	var dW cuda.Buffer
	if sampleWeight != nil {
		dW, err = input.SliceToDevice(h, sampleWeight, c.dtype)
		if err != nil {
			return err
		}
		defer func() { _ = h.Free(dW) }()
	}

	// Refit discards the previous fitted state before the native call.
	if !c.coef.IsNil() {
		_ = h.Free(c.coef)
		c.coef = cuda.Buffer{}
		c.Reset()
	}

	coef, err := h.Alloc(c.dtype, cols)
	if err != nil {
		return err
	}

	var intercept float64
	switch c.dtype {
	case cuda.Float32:
		var i32 float32
		i32, err = backend.CDFit32(h, dX, rows, cols, dY, dW, c.params(), coef)
		intercept = float64(i32)
	default:
		intercept, err = backend.CDFit64(h, dX, rows, cols, dY, dW, c.params(), coef)
	}
	if err != nil {
		_ = h.Free(coef)
		return errors.NewNativeError(op, backend.Name(), err)
	}
	h.Sync()

	c.coef = coef
	c.intercept = intercept
	c.nFeatures = cols
	c.SetFitted()
	return nil
}

// Predict applies the fitted coefficients to X and returns a length-rows
// column matrix. X must have the feature count seen at fit time.
func (c *CD) Predict(X mat.Matrix) (preds mat.Matrix, err error) {
	const op = "CD.Predict"
	defer errors.Recover(&err, op)

	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("CD", "Predict")
	}
	if X == nil {
		return nil, errors.NewValueError(op, "X must not be nil")
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if cols != c.nFeatures {
		return nil, errors.NewDimensionError(op, c.nFeatures, cols, 1)
	}

	backend, h := c.backend, c.handle

	c.logger.Debug("predict dispatch",
		log.ModelNameKey, "CD",
		log.OperationKey, log.OperationPredict,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.DTypeKey, c.dtype.String(),
		log.BackendKey, backend.Name(),
	)

	dX, _, _, err := input.ToDevice(h, X, c.dtype, cuda.ColMajor)
	if err != nil {
		return nil, err
	}
	defer func() { _ = h.Free(dX) }()

	out, err := h.Alloc(c.dtype, rows)
	if err != nil {
		return nil, err
	}
	defer func() { _ = h.Free(out) }()

	switch c.dtype {
	case cuda.Float32:
		err = backend.CDPredict32(h, dX, rows, cols, c.coef, float32(c.intercept), out)
	default:
		err = backend.CDPredict64(h, dX, rows, cols, c.coef, c.intercept, out)
	}
	if err != nil {
		return nil, errors.NewNativeError(op, backend.Name(), err)
	}
	h.Sync()

	return input.VecToHost(out, rows)
}

// Coef returns a host copy of the fitted coefficients, or nil before Fit.
func (c *CD) Coef() []float64 {
	if !c.IsFitted() {
		return nil
	}
	coef, err := input.CoefToHost(c.coef)
	if err != nil {
		return nil
	}
	return coef
}

// Intercept returns the fitted intercept, or 0 before Fit.
func (c *CD) Intercept() float64 {
	if !c.IsFitted() {
		return 0
	}
	return c.intercept
}

// NFeatures returns the feature count seen at fit time.
func (c *CD) NFeatures() int {
	return c.nFeatures
}

// Score returns the coefficient of determination of the prediction on X
// against y.
func (c *CD) Score(X, y mat.Matrix) (float64, error) {
	preds, err := c.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2ScoreMatrix(y, preds)
}

// Close releases the device-resident fitted state. Safe to call more than
// once.
func (c *CD) Close() error {
	if c.coef.IsNil() {
		return nil
	}
	err := c.handle.Free(c.coef)
	c.coef = cuda.Buffer{}
	c.Reset()
	return err
}
