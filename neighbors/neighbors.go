// Package neighbors provides the brute-force nearest-neighbor adapter.
// Index construction and search run in the native library; this adapter
// stages data, owns the index and the device-resident training copy, and
// marshals search results back to the host.
package neighbors

import (
	"github.com/Zhylkaaa/cuml/core/input"
	"github.com/Zhylkaaa/cuml/core/model"
	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/native"
	"github.com/Zhylkaaa/cuml/pkg/errors"
	"github.com/Zhylkaaa/cuml/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// NearestNeighbors is the nearest-neighbor search adapter. The native
// search works in float32 only. Fitted state is device-resident: the
// index and a copy of the training data, both replaced on refit and
// released by Close. An instance is not safe for concurrent use.
type NearestNeighbors struct {
	model.BaseEstimator

	nNeighbors int
	convert    bool

	handle  *cuda.Handle
	backend native.Backend
	logger  log.Logger

	index     native.Index
	train     cuda.Buffer
	nSamples  int
	nFeatures int
}

// Option configures a NearestNeighbors estimator.
type Option func(*NearestNeighbors)

// WithNNeighbors sets the default neighbor count used when Kneighbors is
// called with k <= 0.
func WithNNeighbors(n int) Option {
	return func(nn *NearestNeighbors) {
		nn.nNeighbors = n
	}
}

// WithConvert sets whether float64 host data may be narrowed to the
// float32 working precision of the native search. Disabling it makes
// construction fail.
func WithConvert(convert bool) Option {
	return func(nn *NearestNeighbors) {
		nn.convert = convert
	}
}

// WithHandle binds the estimator to an execution handle.
func WithHandle(h *cuda.Handle) Option {
	return func(nn *NearestNeighbors) {
		nn.handle = h
	}
}

// WithBackend pins the native backend instead of using the registry
// default.
func WithBackend(b native.Backend) Option {
	return func(nn *NearestNeighbors) {
		nn.backend = b
	}
}

// WithLogger replaces the estimator's logger.
func WithLogger(l log.Logger) Option {
	return func(nn *NearestNeighbors) {
		nn.logger = l
	}
}

// NewNearestNeighbors constructs a search adapter. Hyperparameters are
// validated here, not at fit time.
func NewNearestNeighbors(opts ...Option) (*NearestNeighbors, error) {
	nn := &NearestNeighbors{
		nNeighbors: 5,
		convert:    true,
		logger:     log.GetLoggerWithName("neighbors"),
	}
	for _, opt := range opts {
		opt(nn)
	}

	if nn.nNeighbors < 1 {
		return nil, errors.NewValidationError("n_neighbors", "must be positive", nn.nNeighbors)
	}
	if !nn.convert {
		return nil, errors.NewValidationError("convert", "the native search computes in float32 and must narrow float64 host data; enable convert", nn.convert)
	}

	return nn, nil
}

func (nn *NearestNeighbors) resolve(op string) (native.Backend, *cuda.Handle, error) {
	if nn.backend == nil {
		backend, err := native.DefaultBackend()
		if err != nil {
			return nil, nil, errors.NewNoBackendError(op)
		}
		nn.backend = backend
	}
	if nn.handle == nil {
		nn.handle = cuda.Default()
	}
	return nn.backend, nn.handle, nil
}

func (nn *NearestNeighbors) releaseState(backend native.Backend, h *cuda.Handle) error {
	var err error
	if nn.index != nil {
		err = backend.KNNRelease(nn.index)
		nn.index = nil
	}
	if !nn.train.IsNil() {
		if ferr := h.Free(nn.train); err == nil {
			err = ferr
		}
		nn.train = cuda.Buffer{}
	}
	nn.nSamples = 0
	nn.nFeatures = 0
	nn.Reset()
	return err
}

// Fit indexes X for nearest-neighbor search. The staged training data
// stays device-resident for the lifetime of the fit: the native index
// refers into it during searches. Any previously fitted state is released
// first. On failure no fitted state remains.
func (nn *NearestNeighbors) Fit(X mat.Matrix) (err error) {
	const op = "NearestNeighbors.Fit"
	defer errors.Recover(&err, op)

	if X == nil {
		return errors.NewValueError(op, "X must not be nil")
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}

	backend, h, err := nn.resolve(op)
	if err != nil {
		return err
	}

	if err := nn.releaseState(backend, h); err != nil {
		return errors.NewNativeError(op, backend.Name(), err)
	}

	nn.logger.Debug("fit dispatch",
		log.ModelNameKey, "NearestNeighbors",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.DTypeKey, cuda.Float32.String(),
		log.OrderKey, cuda.RowMajor.String(),
		log.BackendKey, backend.Name(),
	)
	errors.Warn(errors.NewDataConversionWarning("float64", "float32", "the native search computes in float32"))

	dX, _, _, err := input.ToDevice(h, X, cuda.Float32, cuda.RowMajor)
	if err != nil {
		return err
	}

	index, err := backend.KNNBuild(h, cols)
	if err != nil {
		_ = h.Free(dX)
		return errors.NewNativeError(op, backend.Name(), err)
	}
	if err := backend.KNNFit(index, dX, rows); err != nil {
		_ = backend.KNNRelease(index)
		_ = h.Free(dX)
		return errors.NewNativeError(op, backend.Name(), err)
	}
	h.Sync()

	nn.index = index
	nn.train = dX
	nn.nSamples = rows
	nn.nFeatures = cols
	nn.SetFitted()
	return nil
}

// Kneighbors returns the k nearest training points of every row of X:
// a q × k distance matrix and a parallel q × k index table. k <= 0 uses
// the construction-time default; k must not exceed the fitted row count.
func (nn *NearestNeighbors) Kneighbors(X mat.Matrix, k int) (distances *mat.Dense, indices [][]int, err error) {
	const op = "NearestNeighbors.Kneighbors"
	defer errors.Recover(&err, op)

	if !nn.IsFitted() {
		return nil, nil, errors.NewNotFittedError("NearestNeighbors", "Kneighbors")
	}
	if X == nil {
		return nil, nil, errors.NewValueError(op, "X must not be nil")
	}
	if k <= 0 {
		k = nn.nNeighbors
	}
	if k > nn.nSamples {
		return nil, nil, errors.NewValueError(op, "k must not exceed the number of fitted samples")
	}
	qRows, cols := X.Dims()
	if qRows == 0 {
		return nil, nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if cols != nn.nFeatures {
		return nil, nil, errors.NewDimensionError(op, nn.nFeatures, cols, 1)
	}

	backend, h := nn.backend, nn.handle

	nn.logger.Debug("search dispatch",
		log.ModelNameKey, "NearestNeighbors",
		log.OperationKey, log.OperationKneighbors,
		log.SamplesKey, qRows,
		log.FeaturesKey, cols,
		log.BackendKey, backend.Name(),
	)
	errors.Warn(errors.NewDataConversionWarning("float64", "float32", "the native search computes in float32"))

	dQ, _, _, err := input.ToDevice(h, X, cuda.Float32, cuda.RowMajor)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = h.Free(dQ) }()

	dDist, err := h.Alloc(cuda.Float32, qRows*k)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = h.Free(dDist) }()

	dInd, err := h.Alloc(cuda.Int64, qRows*k)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = h.Free(dInd) }()

	if err := backend.KNNSearch(nn.index, dQ, qRows, k, dDist, dInd); err != nil {
		return nil, nil, errors.NewNativeError(op, backend.Name(), err)
	}
	h.Sync()

	distances, err = input.ToHost(dDist, qRows, k, cuda.RowMajor)
	if err != nil {
		return nil, nil, err
	}
	raw := dInd.Int64()
	indices = make([][]int, qRows)
	for q := 0; q < qRows; q++ {
		row := make([]int, k)
		for j := 0; j < k; j++ {
			row[j] = int(raw[q*k+j])
		}
		indices[q] = row
	}
	return distances, indices, nil
}

// NFeatures returns the feature count seen at fit time.
func (nn *NearestNeighbors) NFeatures() int {
	return nn.nFeatures
}

// NSamples returns the number of fitted samples.
func (nn *NearestNeighbors) NSamples() int {
	return nn.nSamples
}

// Close releases the device-resident fitted state. Safe to call more than
// once.
func (nn *NearestNeighbors) Close() error {
	if nn.index == nil && nn.train.IsNil() {
		return nil
	}
	return nn.releaseState(nn.backend, nn.handle)
}
