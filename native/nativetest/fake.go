// Package nativetest provides Fake, an in-memory native.Backend for
// adapter-contract tests. The fake records every call that crosses the
// boundary (operation name, shapes, parameter structs, whether optional
// inputs were present, whether output buffers arrived pre-zeroed), counts
// live nearest-neighbor indexes for leak assertions, fills outputs
// deterministically, and can be forced to fail any entry point.
//
// The fake performs no numerical work. Tests against it verify marshaling
// and lifecycle contracts, never algorithmic correctness.
package nativetest

import (
	"sync"

	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/native"
	"github.com/Zhylkaaa/cuml/pkg/errors"
)

// Operation names recorded by the fake.
const (
	OpCDFit32     = "cd_fit32"
	OpCDFit64     = "cd_fit64"
	OpCDPredict32 = "cd_predict32"
	OpCDPredict64 = "cd_predict64"
	OpUMAPFit     = "umap_fit"
	OpUMAPTrans   = "umap_transform"
	OpKNNBuild    = "knn_build"
	OpKNNFit      = "knn_fit"
	OpKNNSearch   = "knn_search"
	OpKNNRelease  = "knn_release"
)

// Call is one recorded boundary crossing.
type Call struct {
	Op         string
	Rows       int
	Cols       int
	K          int
	HasWeights bool
	OutZeroed  bool
	CD         *native.CDParams
	UMAP       *native.UMAPParams
}

type fakeIndex struct {
	dim      int
	rows     int
	released bool
}

// Fake is a scriptable recording backend.
type Fake struct {
	mu        sync.Mutex
	calls     []Call
	live      int
	failures  map[string]error
	available bool
}

// New creates an available fake backend.
func New() *Fake {
	return &Fake{
		failures:  make(map[string]error),
		available: true,
	}
}

// Name implements native.Backend.
func (f *Fake) Name() string { return "fake" }

// Available implements native.Backend.
func (f *Fake) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

// SetAvailable toggles the backend's availability.
func (f *Fake) SetAvailable(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.available = v
}

// FailWith forces the named entry point to return err. Passing a nil err
// clears the injection.
func (f *Fake) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

// Calls returns a copy of every recorded call.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times the named entry point was invoked.
func (f *Fake) CallCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// LiveIndexes returns the number of built but not yet released
// nearest-neighbor indexes.
func (f *Fake) LiveIndexes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

// Reset clears the call log and failure injections. Live index accounting
// is kept so leaks survive a reset.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.failures = make(map[string]error)
}

func (f *Fake) record(c Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	if err, ok := f.failures[c.Op]; ok {
		return err
	}
	return nil
}

func allZero32(s []float32) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// CDFit32 implements native.Solver. Coefficients are filled with the
// deterministic pattern 0.1*(j+1); the intercept is always 0.5.
func (f *Fake) CDFit32(h *cuda.Handle, X cuda.Buffer, rows, cols int, y cuda.Buffer, sampleWeight cuda.Buffer, params native.CDParams, coef cuda.Buffer) (float32, error) {
	p := params
	if err := f.record(Call{Op: OpCDFit32, Rows: rows, Cols: cols, HasWeights: !sampleWeight.IsNil(), CD: &p}); err != nil {
		return 0, err
	}
	if coef.Len() != cols || coef.DType() != cuda.Float32 {
		return 0, errors.Newf("nativetest: coef buffer is (%d, %v), want (%d, float32)", coef.Len(), coef.DType(), cols)
	}
	h.Submit(func() {
		out := coef.Float32()
		for j := range out {
			out[j] = 0.1 * float32(j+1)
		}
	})
	return 0.5, nil
}

// CDFit64 implements native.Solver with the same fill pattern as CDFit32.
func (f *Fake) CDFit64(h *cuda.Handle, X cuda.Buffer, rows, cols int, y cuda.Buffer, sampleWeight cuda.Buffer, params native.CDParams, coef cuda.Buffer) (float64, error) {
	p := params
	if err := f.record(Call{Op: OpCDFit64, Rows: rows, Cols: cols, HasWeights: !sampleWeight.IsNil(), CD: &p}); err != nil {
		return 0, err
	}
	if coef.Len() != cols || coef.DType() != cuda.Float64 {
		return 0, errors.Newf("nativetest: coef buffer is (%d, %v), want (%d, float64)", coef.Len(), coef.DType(), cols)
	}
	h.Submit(func() {
		out := coef.Float64()
		for j := range out {
			out[j] = 0.1 * float64(j+1)
		}
	})
	return 0.5, nil
}

// CDPredict32 implements native.Solver. Predictions are filled with
// intercept + i.
func (f *Fake) CDPredict32(h *cuda.Handle, X cuda.Buffer, rows, cols int, coef cuda.Buffer, intercept float32, out cuda.Buffer) error {
	if err := f.record(Call{Op: OpCDPredict32, Rows: rows, Cols: cols}); err != nil {
		return err
	}
	if out.Len() != rows || out.DType() != cuda.Float32 {
		return errors.Newf("nativetest: out buffer is (%d, %v), want (%d, float32)", out.Len(), out.DType(), rows)
	}
	h.Submit(func() {
		preds := out.Float32()
		for i := range preds {
			preds[i] = intercept + float32(i)
		}
	})
	return nil
}

// CDPredict64 implements native.Solver.
func (f *Fake) CDPredict64(h *cuda.Handle, X cuda.Buffer, rows, cols int, coef cuda.Buffer, intercept float64, out cuda.Buffer) error {
	if err := f.record(Call{Op: OpCDPredict64, Rows: rows, Cols: cols}); err != nil {
		return err
	}
	if out.Len() != rows || out.DType() != cuda.Float64 {
		return errors.Newf("nativetest: out buffer is (%d, %v), want (%d, float64)", out.Len(), out.DType(), rows)
	}
	h.Submit(func() {
		preds := out.Float64()
		for i := range preds {
			preds[i] = intercept + float64(i)
		}
	})
	return nil
}

// UMAPFit implements native.Manifold. The recorded call notes whether the
// output buffer arrived zeroed, which the adapter must guarantee. The
// embedding is filled with row*NComponents + column.
func (f *Fake) UMAPFit(h *cuda.Handle, X cuda.Buffer, rows, cols int, knn native.Index, params native.UMAPParams, out cuda.Buffer) error {
	p := params
	call := Call{Op: OpUMAPFit, Rows: rows, Cols: cols, UMAP: &p, OutZeroed: allZero32(out.Float32())}
	if err := f.record(call); err != nil {
		return err
	}
	idx, ok := knn.(*fakeIndex)
	if !ok || idx.released {
		return errors.New("nativetest: UMAPFit called with an invalid or released index")
	}
	if out.Len() != rows*params.NComponents {
		return errors.Newf("nativetest: embedding buffer has %d elements, want %d", out.Len(), rows*params.NComponents)
	}
	h.Submit(func() {
		emb := out.Float32()
		for i := range emb {
			emb[i] = float32(i)
		}
	})
	return nil
}

// UMAPTransform implements native.Manifold.
func (f *Fake) UMAPTransform(h *cuda.Handle, X cuda.Buffer, rows, cols int, embedding cuda.Buffer, embRows int, knn native.Index, params native.UMAPParams, out cuda.Buffer) error {
	p := params
	call := Call{Op: OpUMAPTrans, Rows: rows, Cols: cols, UMAP: &p, OutZeroed: allZero32(out.Float32())}
	if err := f.record(call); err != nil {
		return err
	}
	idx, ok := knn.(*fakeIndex)
	if !ok || idx.released {
		return errors.New("nativetest: UMAPTransform called with an invalid or released index")
	}
	h.Submit(func() {
		emb := out.Float32()
		for i := range emb {
			emb[i] = float32(i) + 0.5
		}
	})
	return nil
}

// KNNBuild implements native.Neighbors.
func (f *Fake) KNNBuild(h *cuda.Handle, dim int) (native.Index, error) {
	if err := f.record(Call{Op: OpKNNBuild, Cols: dim}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.live++
	f.mu.Unlock()
	return &fakeIndex{dim: dim}, nil
}

// KNNFit implements native.Neighbors.
func (f *Fake) KNNFit(knn native.Index, X cuda.Buffer, rows int) error {
	if err := f.record(Call{Op: OpKNNFit, Rows: rows}); err != nil {
		return err
	}
	idx, ok := knn.(*fakeIndex)
	if !ok || idx.released {
		return errors.New("nativetest: KNNFit called with an invalid or released index")
	}
	idx.rows = rows
	return nil
}

// KNNSearch implements native.Neighbors. Distances are filled with the
// neighbor rank; indices with (rank) mod fitted rows.
func (f *Fake) KNNSearch(knn native.Index, queries cuda.Buffer, qRows, k int, distances, indices cuda.Buffer) error {
	if err := f.record(Call{Op: OpKNNSearch, Rows: qRows, K: k}); err != nil {
		return err
	}
	idx, ok := knn.(*fakeIndex)
	if !ok || idx.released {
		return errors.New("nativetest: KNNSearch called with an invalid or released index")
	}
	if k > idx.rows {
		return errors.Newf("nativetest: k=%d exceeds fitted rows %d", k, idx.rows)
	}
	dist := distances.Float32()
	ind := indices.Int64()
	if len(dist) != qRows*k || len(ind) != qRows*k {
		return errors.Newf("nativetest: output buffers are (%d, %d) elements, want %d", len(dist), len(ind), qRows*k)
	}
	for q := 0; q < qRows; q++ {
		for j := 0; j < k; j++ {
			dist[q*k+j] = float32(j)
			ind[q*k+j] = int64(j % idx.rows)
		}
	}
	return nil
}

// KNNRelease implements native.Neighbors. Releasing an index twice is an
// error, mirroring the ownership contract of the native handle.
func (f *Fake) KNNRelease(knn native.Index) error {
	if err := f.record(Call{Op: OpKNNRelease}); err != nil {
		return err
	}
	idx, ok := knn.(*fakeIndex)
	if !ok {
		return errors.New("nativetest: KNNRelease called with a foreign index")
	}
	if idx.released {
		return errors.New("nativetest: index released twice")
	}
	idx.released = true
	f.mu.Lock()
	f.live--
	f.mu.Unlock()
	return nil
}
