// Package manifold provides the UMAP embedding adapter. The embedding
// itself, fuzzy simplicial set construction and stochastic layout
// optimization, runs in the native library; this adapter validates
// hyperparameters and shapes, stages data onto the device, manages the
// nearest-neighbor index and embedding buffer that make up the fitted
// state, and synchronizes before returning.
package manifold

import (
	"github.com/Zhylkaaa/cuml/core/input"
	"github.com/Zhylkaaa/cuml/core/model"
	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/native"
	"github.com/Zhylkaaa/cuml/pkg/errors"
	"github.com/Zhylkaaa/cuml/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// UMAP is the embedding adapter. Every hyperparameter is validated at
// construction; Fit and Transform validate only data-dependent facts.
// The native embedding works in float32 only, so float64 host data is
// narrowed at the staging boundary and a DataConversionWarning is emitted.
//
// Fitted state is device-resident: a nearest-neighbor index and the
// training embedding, both replaced on refit and released by Close. An
// instance is not safe for concurrent use.
type UMAP struct {
	model.BaseEstimator

	params   native.UMAPParams
	initName string
	convert  bool

	handle  *cuda.Handle
	backend native.Backend
	logger  log.Logger

	index     native.Index
	embedding cuda.Buffer
	nSamples  int
	nFeatures int
}

// NewUMAP constructs an embedding adapter. The initialization selector and
// every scalar hyperparameter are validated here, not at fit time.
func NewUMAP(opts ...Option) (*UMAP, error) {
	u := &UMAP{
		params:   native.DefaultUMAPParams(),
		initName: "spectral",
		convert:  true,
		logger:   log.GetLoggerWithName("manifold"),
	}
	for _, opt := range opts {
		opt(u)
	}

	init, err := native.ParseInit(u.initName)
	if err != nil {
		return nil, err
	}
	u.params.Init = init

	p := u.params
	if p.NNeighbors < 2 {
		return nil, errors.NewValidationError("n_neighbors", "must be at least 2", p.NNeighbors)
	}
	if p.NComponents < 1 {
		return nil, errors.NewValidationError("n_components", "must be positive", p.NComponents)
	}
	if p.NEpochs < 0 {
		return nil, errors.NewValidationError("n_epochs", "must be non-negative", p.NEpochs)
	}
	if p.LearningRate <= 0 {
		return nil, errors.NewValidationError("learning_rate", "must be positive", p.LearningRate)
	}
	if p.MinDist < 0 {
		return nil, errors.NewValidationError("min_dist", "must be non-negative", p.MinDist)
	}
	if p.Spread <= 0 {
		return nil, errors.NewValidationError("spread", "must be positive", p.Spread)
	}
	if p.MinDist > p.Spread {
		return nil, errors.NewValidationError("min_dist", "must not exceed spread", p.MinDist)
	}
	if p.SetOpMixRatio < 0 || p.SetOpMixRatio > 1 {
		return nil, errors.NewValidationError("set_op_mix_ratio", "must be in [0, 1]", p.SetOpMixRatio)
	}
	if p.LocalConnectivity < 1 {
		return nil, errors.NewValidationError("local_connectivity", "must be at least 1", p.LocalConnectivity)
	}
	if p.RepulsionStrength <= 0 {
		return nil, errors.NewValidationError("repulsion_strength", "must be positive", p.RepulsionStrength)
	}
	if p.NegativeSampleRate < 1 {
		return nil, errors.NewValidationError("negative_sample_rate", "must be at least 1", p.NegativeSampleRate)
	}
	if p.TransformQueueSize <= 0 {
		return nil, errors.NewValidationError("transform_queue_size", "must be positive", p.TransformQueueSize)
	}
	if !u.convert {
		return nil, errors.NewValidationError("convert", "the native embedding computes in float32 and must narrow float64 host data; enable convert", u.convert)
	}

	return u, nil
}

func (u *UMAP) resolve(op string) (native.Backend, *cuda.Handle, error) {
	if u.backend == nil {
		backend, err := native.DefaultBackend()
		if err != nil {
			return nil, nil, errors.NewNoBackendError(op)
		}
		u.backend = backend
	}
	if u.handle == nil {
		u.handle = cuda.Default()
	}
	return u.backend, u.handle, nil
}

// releaseState drops the device-resident fitted state: the neighbor index
// first, then the embedding buffer. Errors from the native release are
// surfaced but do not stop the remaining cleanup.
func (u *UMAP) releaseState(backend native.Backend, h *cuda.Handle) error {
	var err error
	if u.index != nil {
		err = backend.KNNRelease(u.index)
		u.index = nil
	}
	if !u.embedding.IsNil() {
		if ferr := h.Free(u.embedding); err == nil {
			err = ferr
		}
		u.embedding = cuda.Buffer{}
	}
	u.nSamples = 0
	u.nFeatures = 0
	u.Reset()
	return err
}

// Fit learns an embedding of X. The supervised target y is accepted for
// interface compatibility and ignored; supervised embeddings are driven
// through the target fields of the native parameters instead. Any
// previously fitted state is released before the new fit, so a refit never
// accumulates native resources. On failure no fitted state remains.
func (u *UMAP) Fit(X, y mat.Matrix) (err error) {
	const op = "UMAP.Fit"
	defer errors.Recover(&err, op)
	_ = y

	if X == nil {
		return errors.NewValueError(op, "X must not be nil")
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if rows <= u.params.NNeighbors {
		return errors.NewValueError(op, "n_neighbors must be smaller than the number of samples")
	}

	backend, h, err := u.resolve(op)
	if err != nil {
		return err
	}

	// Refit releases the previous index and embedding before any new
	// native work.
	if err := u.releaseState(backend, h); err != nil {
		return errors.NewNativeError(op, backend.Name(), err)
	}

	u.logger.Debug("fit dispatch",
		log.ModelNameKey, "UMAP",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.DTypeKey, cuda.Float32.String(),
		log.OrderKey, cuda.RowMajor.String(),
		log.BackendKey, backend.Name(),
	)
	errors.Warn(errors.NewDataConversionWarning("float64", "float32", "the native embedding computes in float32"))

	dX, _, _, err := input.ToDevice(h, X, cuda.Float32, cuda.RowMajor)
	if err != nil {
		return err
	}
	defer func() { _ = h.Free(dX) }()

	index, err := backend.KNNBuild(h, cols)
	if err != nil {
		return errors.NewNativeError(op, backend.Name(), err)
	}
	if err := backend.KNNFit(index, dX, rows); err != nil {
		_ = backend.KNNRelease(index)
		return errors.NewNativeError(op, backend.Name(), err)
	}

	emb, err := h.Alloc(cuda.Float32, rows*u.params.NComponents)
	if err != nil {
		_ = backend.KNNRelease(index)
		return err
	}
	// The native optimizer requires a zeroed output buffer.
	emb.Zero()

	if err := backend.UMAPFit(h, dX, rows, cols, index, u.params, emb); err != nil {
		_ = h.Free(emb)
		_ = backend.KNNRelease(index)
		return errors.NewNativeError(op, backend.Name(), err)
	}
	h.Sync()

	u.index = index
	u.embedding = emb
	u.nSamples = rows
	u.nFeatures = cols
	u.SetFitted()
	return nil
}

// Embedding returns a host copy of the training embedding, shaped
// n_samples × n_components.
func (u *UMAP) Embedding() (*mat.Dense, error) {
	if !u.IsFitted() {
		return nil, errors.NewNotFittedError("UMAP", "Embedding")
	}
	return input.ToHost(u.embedding, u.nSamples, u.params.NComponents, cuda.RowMajor)
}

// FitTransform fits on X and returns the training embedding.
func (u *UMAP) FitTransform(X, y mat.Matrix) (mat.Matrix, error) {
	if err := u.Fit(X, y); err != nil {
		return nil, err
	}
	return u.Embedding()
}

// Transform projects new rows through the fitted embedding. X must have
// the feature count seen at fit time; the result is freshly allocated and
// the device-side output is released before returning.
func (u *UMAP) Transform(X mat.Matrix) (out mat.Matrix, err error) {
	const op = "UMAP.Transform"
	defer errors.Recover(&err, op)

	if !u.IsFitted() {
		return nil, errors.NewNotFittedError("UMAP", "Transform")
	}
	if X == nil {
		return nil, errors.NewValueError(op, "X must not be nil")
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return nil, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if cols != u.nFeatures {
		return nil, errors.NewDimensionError(op, u.nFeatures, cols, 1)
	}

	backend, h := u.backend, u.handle

	u.logger.Debug("transform dispatch",
		log.ModelNameKey, "UMAP",
		log.OperationKey, log.OperationTransform,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.BackendKey, backend.Name(),
	)
	errors.Warn(errors.NewDataConversionWarning("float64", "float32", "the native embedding computes in float32"))

	dX, _, _, err := input.ToDevice(h, X, cuda.Float32, cuda.RowMajor)
	if err != nil {
		return nil, err
	}
	defer func() { _ = h.Free(dX) }()

	dOut, err := h.Alloc(cuda.Float32, rows*u.params.NComponents)
	if err != nil {
		return nil, err
	}
	defer func() { _ = h.Free(dOut) }()
	dOut.Zero()

	err = backend.UMAPTransform(h, dX, rows, cols, u.embedding, u.nSamples, u.index, u.params, dOut)
	if err != nil {
		return nil, errors.NewNativeError(op, backend.Name(), err)
	}
	h.Sync()

	return input.ToHost(dOut, rows, u.params.NComponents, cuda.RowMajor)
}

// NComponents returns the embedding dimensionality.
func (u *UMAP) NComponents() int {
	return u.params.NComponents
}

// NFeatures returns the feature count seen at fit time.
func (u *UMAP) NFeatures() int {
	return u.nFeatures
}

// Close releases the device-resident fitted state. Safe to call more than
// once.
func (u *UMAP) Close() error {
	if u.index == nil && u.embedding.IsNil() {
		return nil
	}
	return u.releaseState(u.backend, u.handle)
}
