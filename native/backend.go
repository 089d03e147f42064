// Package native defines the boundary to the precompiled numerical library
// the estimators wrap. Every entry point takes device buffers allocated
// from a cuda.Handle; the adapters validate shapes and dtypes before a
// call ever crosses this boundary, and a failure reported from behind it
// is fatal for the call: never retried, never partially kept.
//
// Backends register themselves at init time. A process without a
// registered, available backend can still validate inputs and manage
// device state, but every Fit and Predict surfaces a NoBackendError.
package native

import (
	"sync"

	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/pkg/errors"
)

// ErrBackendUnavailable is returned when no registered backend is usable
// in this process.
var ErrBackendUnavailable = errors.New("native: no usable backend registered")

// Index is an opaque handle to a native nearest-neighbor index. Its
// concrete type belongs to the backend that built it; callers only hold
// it, pass it back, and release it.
type Index interface{}

// Solver exposes the coordinate-descent entry points, one pair per
// precision. The two precisions are semantically identical and differ only
// in numeric width, so they share parameter structs.
//
// CDFit populates coef (length cols, pre-allocated by the caller) and
// returns the fitted intercept. When sampleWeight is the absent zero-value
// buffer, the fit is unweighted. CDPredict populates out (length rows).
type Solver interface {
	CDFit32(h *cuda.Handle, X cuda.Buffer, rows, cols int, y cuda.Buffer, sampleWeight cuda.Buffer, params CDParams, coef cuda.Buffer) (intercept float32, err error)
	CDFit64(h *cuda.Handle, X cuda.Buffer, rows, cols int, y cuda.Buffer, sampleWeight cuda.Buffer, params CDParams, coef cuda.Buffer) (intercept float64, err error)
	CDPredict32(h *cuda.Handle, X cuda.Buffer, rows, cols int, coef cuda.Buffer, intercept float32, out cuda.Buffer) error
	CDPredict64(h *cuda.Handle, X cuda.Buffer, rows, cols int, coef cuda.Buffer, intercept float64, out cuda.Buffer) error
}

// Manifold exposes the embedding entry points. The native UMAP works in
// float32 only. UMAPFit requires out to be pre-zeroed and sized
// rows × params.NComponents; it populates out in place. UMAPTransform
// projects new rows through a previously fitted embedding.
type Manifold interface {
	UMAPFit(h *cuda.Handle, X cuda.Buffer, rows, cols int, knn Index, params UMAPParams, out cuda.Buffer) error
	UMAPTransform(h *cuda.Handle, X cuda.Buffer, rows, cols int, embedding cuda.Buffer, embRows int, knn Index, params UMAPParams, out cuda.Buffer) error
}

// Neighbors exposes the nearest-neighbor index entry points. KNNBuild
// allocates a native index sized to the feature dimensionality; the caller
// owns the handle and must release it exactly once with KNNRelease.
// KNNSearch populates distances (qRows × k, Float32) and indices
// (qRows × k, Int64).
type Neighbors interface {
	KNNBuild(h *cuda.Handle, dim int) (Index, error)
	KNNFit(knn Index, X cuda.Buffer, rows int) error
	KNNSearch(knn Index, queries cuda.Buffer, qRows, k int, distances, indices cuda.Buffer) error
	KNNRelease(knn Index) error
}

// Backend bundles every entry point the native library provides.
type Backend interface {
	// Name identifies the backend ("cuda", "fake", ...).
	Name() string
	// Available reports whether the backend can serve calls in this
	// process.
	Available() bool

	Solver
	Manifold
	Neighbors
}

var (
	registryMu sync.RWMutex
	registry   []Backend
)

// Register adds a backend to the registry. Backends typically call it from
// an init function.
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, b)
}

// Backends returns all registered backends in registration order.
func Backends() []Backend {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Backend, len(registry))
	copy(out, registry)
	return out
}

// DefaultBackend returns the first available backend, or
// ErrBackendUnavailable when none is.
func DefaultBackend() (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, b := range registry {
		if b.Available() {
			return b, nil
		}
	}
	return nil, errors.WithStack(ErrBackendUnavailable)
}
