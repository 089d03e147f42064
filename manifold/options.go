package manifold

import (
	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/native"
	"github.com/Zhylkaaa/cuml/pkg/log"
)

// Option configures a UMAP estimator.
type Option func(*UMAP)

// WithNNeighbors sets the neighborhood size used to build the fuzzy graph.
func WithNNeighbors(n int) Option {
	return func(u *UMAP) {
		u.params.NNeighbors = n
	}
}

// WithNComponents sets the target dimensionality of the embedding.
func WithNComponents(n int) Option {
	return func(u *UMAP) {
		u.params.NComponents = n
	}
}

// WithNEpochs sets the number of optimization epochs; 0 lets the native
// library choose based on dataset size.
func WithNEpochs(n int) Option {
	return func(u *UMAP) {
		u.params.NEpochs = n
	}
}

// WithLearningRate sets the initial embedding learning rate.
func WithLearningRate(lr float64) Option {
	return func(u *UMAP) {
		u.params.LearningRate = float32(lr)
	}
}

// WithMinDist sets the minimum distance between embedded points.
func WithMinDist(d float64) Option {
	return func(u *UMAP) {
		u.params.MinDist = float32(d)
	}
}

// WithSpread sets the effective scale of embedded points.
func WithSpread(s float64) Option {
	return func(u *UMAP) {
		u.params.Spread = float32(s)
	}
}

// WithSetOpMixRatio interpolates between fuzzy union (1.0) and fuzzy
// intersection (0.0) when combining local simplicial sets.
func WithSetOpMixRatio(r float64) Option {
	return func(u *UMAP) {
		u.params.SetOpMixRatio = float32(r)
	}
}

// WithLocalConnectivity sets the number of nearest neighbors assumed
// locally connected.
func WithLocalConnectivity(c float64) Option {
	return func(u *UMAP) {
		u.params.LocalConnectivity = float32(c)
	}
}

// WithRepulsionStrength weights the negative samples in the layout
// optimization.
func WithRepulsionStrength(s float64) Option {
	return func(u *UMAP) {
		u.params.RepulsionStrength = float32(s)
	}
}

// WithNegativeSampleRate sets the number of negative samples per positive
// sample.
func WithNegativeSampleRate(n int) Option {
	return func(u *UMAP) {
		u.params.NegativeSampleRate = n
	}
}

// WithTransformQueueSize scales how aggressively transform searches for
// nearest neighbors.
func WithTransformQueueSize(s float64) Option {
	return func(u *UMAP) {
		u.params.TransformQueueSize = float32(s)
	}
}

// WithInit sets the embedding initialization strategy, "spectral" or
// "random". Unrecognized values fail at construction.
func WithInit(name string) Option {
	return func(u *UMAP) {
		u.initName = name
	}
}

// WithAB pins the curve parameters a and b directly; values at or below
// zero derive them natively from min_dist and spread.
func WithAB(a, b float64) Option {
	return func(u *UMAP) {
		u.params.A = float32(a)
		u.params.B = float32(b)
	}
}

// WithSeed sets the random seed used by the native optimizer.
func WithSeed(seed int64) Option {
	return func(u *UMAP) {
		u.params.Seed = seed
	}
}

// WithConvert sets whether float64 host data may be narrowed to the
// float32 working precision of the native UMAP. Disabling it makes
// construction fail: there is no float64 embedding path to fall back to.
func WithConvert(convert bool) Option {
	return func(u *UMAP) {
		u.convert = convert
	}
}

// WithHandle binds the estimator to an execution handle.
func WithHandle(h *cuda.Handle) Option {
	return func(u *UMAP) {
		u.handle = h
	}
}

// WithBackend pins the native backend instead of using the registry
// default.
func WithBackend(b native.Backend) Option {
	return func(u *UMAP) {
		u.backend = b
	}
}

// WithLogger replaces the estimator's logger.
func WithLogger(l log.Logger) Option {
	return func(u *UMAP) {
		u.logger = l
	}
}
