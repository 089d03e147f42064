package native

import (
	"github.com/Zhylkaaa/cuml/pkg/errors"
)

// Loss selects the objective of the coordinate-descent solver. The native
// library currently implements squared loss only; the enum exists so that
// an unsupported selector is rejected by name at the boundary instead of
// producing an opaque native failure.
type Loss int

const (
	// LossSquared is ordinary least squares with elastic-net penalties.
	LossSquared Loss = iota
)

// String returns the canonical name of the loss.
func (l Loss) String() string {
	if l == LossSquared {
		return "squared_loss"
	}
	return "unknown"
}

// ParseLoss maps a loss name onto the enum. Unknown names fail with
// errors.ErrNotImplemented: the selector is well-formed, the native library
// just does not provide it.
func ParseLoss(name string) (Loss, error) {
	switch name {
	case "squared_loss":
		return LossSquared, nil
	default:
		return 0, errors.Wrapf(errors.ErrNotImplemented, "loss %q (only \"squared_loss\" is supported)", name)
	}
}

// Init selects the embedding initialization strategy.
type Init int

const (
	// InitSpectral initializes from the spectral layout of the fuzzy graph.
	InitSpectral Init = iota
	// InitRandom initializes from uniform random positions.
	InitRandom
)

// String returns the canonical name of the initialization strategy.
func (i Init) String() string {
	if i == InitRandom {
		return "random"
	}
	return "spectral"
}

// ParseInit maps an initialization name onto the enum. Unknown names fail
// with an invalid-argument error.
func ParseInit(name string) (Init, error) {
	switch name {
	case "spectral":
		return InitSpectral, nil
	case "random":
		return InitRandom, nil
	default:
		return 0, errors.NewValidationError("init", `must be "spectral" or "random"`, name)
	}
}

// CDParams carries the hyperparameters of one coordinate-descent fit call
// across the boundary.
type CDParams struct {
	Loss         Loss
	Alpha        float64
	L1Ratio      float64
	FitIntercept bool
	Normalize    bool
	MaxIter      int
	Tol          float64
	Shuffle      bool
	Seed         int64
}

// UMAPParams carries the hyperparameters of one embedding fit or transform
// call across the boundary. A and B at or below zero mean "derive natively
// from MinDist and Spread". The target fields configure supervised
// embeddings inside the native library; this layer carries them through
// unchanged.
type UMAPParams struct {
	NNeighbors         int
	NComponents        int
	NEpochs            int // 0 selects the native default
	LearningRate       float32
	MinDist            float32
	Spread             float32
	SetOpMixRatio      float32
	LocalConnectivity  float32
	RepulsionStrength  float32
	NegativeSampleRate int
	TransformQueueSize float32
	Init               Init
	A                  float32
	B                  float32
	TargetNNeighbors   int
	TargetWeight       float32
	Seed               int64
}

// DefaultUMAPParams returns the native library's default hyperparameters.
func DefaultUMAPParams() UMAPParams {
	return UMAPParams{
		NNeighbors:         15,
		NComponents:        2,
		NEpochs:            0,
		LearningRate:       1.0,
		MinDist:            0.1,
		Spread:             1.0,
		SetOpMixRatio:      1.0,
		LocalConnectivity:  1.0,
		RepulsionStrength:  1.0,
		NegativeSampleRate: 5,
		TransformQueueSize: 4.0,
		Init:               InitSpectral,
		A:                  -1.0,
		B:                  -1.0,
		TargetNNeighbors:   -1,
		TargetWeight:       0.5,
		Seed:               -1,
	}
}
