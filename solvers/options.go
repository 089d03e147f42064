package solvers

import (
	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/native"
	"github.com/Zhylkaaa/cuml/pkg/log"
)

// Option configures a CD solver.
type Option func(*CD)

// WithLoss sets the loss function by name. Only "squared_loss" is
// implemented by the native library; anything else fails at construction.
func WithLoss(name string) Option {
	return func(c *CD) {
		c.lossName = name
	}
}

// WithAlpha sets the overall regularization strength.
func WithAlpha(alpha float64) Option {
	return func(c *CD) {
		c.alpha = alpha
	}
}

// WithL1Ratio sets the elastic-net mixing parameter in [0, 1]; 0 is pure
// L2, 1 is pure L1.
func WithL1Ratio(ratio float64) Option {
	return func(c *CD) {
		c.l1Ratio = ratio
	}
}

// WithFitIntercept sets whether an intercept is fitted.
func WithFitIntercept(fit bool) Option {
	return func(c *CD) {
		c.fitIntercept = fit
	}
}

// WithNormalize sets whether the native solver normalizes features before
// fitting.
func WithNormalize(normalize bool) Option {
	return func(c *CD) {
		c.normalize = normalize
	}
}

// WithMaxIter sets the maximum number of solver iterations.
func WithMaxIter(maxIter int) Option {
	return func(c *CD) {
		c.maxIter = maxIter
	}
}

// WithTol sets the convergence tolerance.
func WithTol(tol float64) Option {
	return func(c *CD) {
		c.tol = tol
	}
}

// WithShuffle sets whether coordinates are visited in random order.
func WithShuffle(shuffle bool) Option {
	return func(c *CD) {
		c.shuffle = shuffle
	}
}

// WithSeed sets the random seed used by the native solver.
func WithSeed(seed int64) Option {
	return func(c *CD) {
		c.seed = seed
	}
}

// WithDType sets the working precision. Both float32 and float64 route
// through precision-specific native entry points; results come back in the
// matching precision.
func WithDType(dtype cuda.DType) Option {
	return func(c *CD) {
		c.dtype = dtype
	}
}

// WithConvert sets whether float64 host data may be narrowed to a float32
// working precision. When disabled, a float32 configuration refuses
// float64 input instead of narrowing it.
func WithConvert(convert bool) Option {
	return func(c *CD) {
		c.convert = convert
	}
}

// WithHandle binds the solver to an execution handle. Instances on
// separate handles run independently of each other.
func WithHandle(h *cuda.Handle) Option {
	return func(c *CD) {
		c.handle = h
	}
}

// WithBackend pins the native backend instead of using the registry
// default.
func WithBackend(b native.Backend) Option {
	return func(c *CD) {
		c.backend = b
	}
}

// WithLogger replaces the solver's logger.
func WithLogger(l log.Logger) Option {
	return func(c *CD) {
		c.logger = l
	}
}
