package manifold

import (
	"testing"

	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/native/nativetest"
	"github.com/Zhylkaaa/cuml/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func newTestUMAP(t *testing.T, fake *nativetest.Fake, opts ...Option) (*UMAP, *cuda.Handle) {
	t.Helper()
	h := cuda.NewHandle()
	t.Cleanup(func() { _ = h.Close() })
	opts = append([]Option{WithBackend(fake), WithHandle(h), WithNNeighbors(5)}, opts...)
	u, err := NewUMAP(opts...)
	if err != nil {
		t.Fatalf("NewUMAP failed: %v", err)
	}
	t.Cleanup(func() { _ = u.Close() })
	return u, h
}

func testData(rows, cols int) *mat.Dense {
	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, float64(i*cols+j)/10)
		}
	}
	return X
}

func TestUMAPHyperparameterValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"unknown init", WithInit("pca")},
		{"n_neighbors too small", WithNNeighbors(1)},
		{"zero components", WithNComponents(0)},
		{"negative epochs", WithNEpochs(-1)},
		{"zero learning rate", WithLearningRate(0)},
		{"negative min_dist", WithMinDist(-0.1)},
		{"min_dist above spread", WithMinDist(2.0)},
		{"mix ratio above one", WithSetOpMixRatio(1.5)},
		{"zero negative sample rate", WithNegativeSampleRate(0)},
		{"convert disabled", WithConvert(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewUMAP(tt.opt); err == nil {
				t.Error("expected construction to fail")
			}
		})
	}
}

func TestUMAPFitTransformShape(t *testing.T) {
	fake := nativetest.New()
	u, _ := newTestUMAP(t, fake, WithNComponents(3))
	X := testData(20, 6)

	emb, err := u.FitTransform(X, nil)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	r, c := emb.Dims()
	if r != 20 || c != 3 {
		t.Errorf("embedding shape = (%d, %d), want (20, 3)", r, c)
	}
}

func TestUMAPFitSequence(t *testing.T) {
	fake := nativetest.New()
	u, _ := newTestUMAP(t, fake)
	X := testData(20, 4)

	if err := u.Fit(X, nil); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	var ops []string
	for _, c := range fake.Calls() {
		ops = append(ops, c.Op)
	}
	want := []string{
		nativetest.OpKNNBuild,
		nativetest.OpKNNFit,
		nativetest.OpUMAPFit,
	}
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("ops = %v, want %v", ops, want)
		}
	}

	fit := fake.Calls()[2]
	if !fit.OutZeroed {
		t.Error("embedding buffer must be zeroed before the native fit")
	}
	if fit.Rows != 20 || fit.Cols != 4 {
		t.Errorf("fit saw shape (%d, %d), want (20, 4)", fit.Rows, fit.Cols)
	}
}

func TestUMAPRefitReleasesNativeState(t *testing.T) {
	fake := nativetest.New()
	u, h := newTestUMAP(t, fake)

	if err := u.Fit(testData(20, 4), nil); err != nil {
		t.Fatal(err)
	}
	if err := u.Fit(testData(30, 7), nil); err != nil {
		t.Fatal(err)
	}

	if live := fake.LiveIndexes(); live != 1 {
		t.Errorf("fake holds %d live indexes after refit, want 1", live)
	}
	// One live buffer: the current embedding. Staged inputs and the first
	// fit's embedding must all be back in the pool.
	if live := h.Pool().Live(); live != 1 {
		t.Errorf("pool has %d live buffers after refit, want 1", live)
	}
	if u.NFeatures() != 7 {
		t.Errorf("NFeatures = %d after refit, want 7", u.NFeatures())
	}
}

func TestUMAPNativeFailureIsFatal(t *testing.T) {
	fake := nativetest.New()
	boom := errors.New("optimizer diverged")
	fake.FailWith(nativetest.OpUMAPFit, boom)

	u, h := newTestUMAP(t, fake)
	err := u.Fit(testData(20, 4), nil)
	var natErr *errors.NativeError
	if !errors.As(err, &natErr) {
		t.Fatalf("Fit = %v, want NativeError", err)
	}
	if !errors.Is(err, boom) {
		t.Error("NativeError should carry the backend cause")
	}
	if u.IsFitted() {
		t.Error("failed fit must not leave fitted state")
	}
	if live := fake.LiveIndexes(); live != 0 {
		t.Errorf("fake holds %d live indexes after failed fit, want 0", live)
	}
	if live := h.Pool().Live(); live != 0 {
		t.Errorf("pool has %d live buffers after failed fit, want 0", live)
	}
}

func TestUMAPTransform(t *testing.T) {
	fake := nativetest.New()
	u, h := newTestUMAP(t, fake)
	if err := u.Fit(testData(20, 4), nil); err != nil {
		t.Fatal(err)
	}

	out, err := u.Transform(testData(5, 4))
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	r, c := out.Dims()
	if r != 5 || c != 2 {
		t.Errorf("transform shape = (%d, %d), want (5, 2)", r, c)
	}

	calls := fake.Calls()
	last := calls[len(calls)-1]
	if last.Op != nativetest.OpUMAPTrans || !last.OutZeroed {
		t.Errorf("last call = %+v, want a zeroed-output transform", last)
	}
	// Transform outputs are copied out and released; only the training
	// embedding stays resident.
	if live := h.Pool().Live(); live != 1 {
		t.Errorf("pool has %d live buffers after transform, want 1", live)
	}
}

func TestUMAPTransformBeforeFit(t *testing.T) {
	fake := nativetest.New()
	u, _ := newTestUMAP(t, fake)

	_, err := u.Transform(testData(5, 4))
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("Transform before Fit = %v, want NotFittedError", err)
	}
}

func TestUMAPTransformDimensionMismatch(t *testing.T) {
	fake := nativetest.New()
	u, _ := newTestUMAP(t, fake)
	if err := u.Fit(testData(20, 4), nil); err != nil {
		t.Fatal(err)
	}

	_, err := u.Transform(testData(5, 3))
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Transform with wrong columns = %v, want DimensionError", err)
	}
	if dimErr.Expected != 4 || dimErr.Got != 3 || dimErr.Axis != 1 {
		t.Errorf("DimensionError fields = %+v", dimErr)
	}
}

func TestUMAPTooFewSamples(t *testing.T) {
	fake := nativetest.New()
	u, _ := newTestUMAP(t, fake, WithNNeighbors(10))

	err := u.Fit(testData(10, 4), nil)
	var valErr *errors.ValueError
	if !errors.As(err, &valErr) {
		t.Fatalf("Fit with n_samples == n_neighbors = %v, want ValueError", err)
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("native backend saw %d calls; validation must happen first", len(fake.Calls()))
	}
}

func TestUMAPConversionWarning(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	defer errors.SetWarningHandler(nil)

	fake := nativetest.New()
	u, _ := newTestUMAP(t, fake)
	if err := u.Fit(testData(20, 4), nil); err != nil {
		t.Fatal(err)
	}

	if len(warned) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warned))
	}
	var conv *errors.DataConversionWarning
	if !errors.As(warned[0], &conv) {
		t.Fatalf("warning = %v, want DataConversionWarning", warned[0])
	}
}

func TestUMAPEmbeddingBeforeFit(t *testing.T) {
	fake := nativetest.New()
	u, _ := newTestUMAP(t, fake)

	_, err := u.Embedding()
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("Embedding before Fit = %v, want NotFittedError", err)
	}
}

func TestUMAPCloseReleasesIndex(t *testing.T) {
	fake := nativetest.New()
	u, h := newTestUMAP(t, fake)
	if err := u.Fit(testData(20, 4), nil); err != nil {
		t.Fatal(err)
	}

	if err := u.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if live := fake.LiveIndexes(); live != 0 {
		t.Errorf("fake holds %d live indexes after Close, want 0", live)
	}
	if live := h.Pool().Live(); live != 0 {
		t.Errorf("pool has %d live buffers after Close, want 0", live)
	}
	if err := u.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestUMAPNoBackend(t *testing.T) {
	h := cuda.NewHandle()
	defer h.Close()
	u, err := NewUMAP(WithHandle(h), WithNNeighbors(5))
	if err != nil {
		t.Fatal(err)
	}

	err = u.Fit(testData(20, 4), nil)
	var nbErr *errors.NoBackendError
	if !errors.As(err, &nbErr) {
		t.Fatalf("Fit without a backend = %v, want NoBackendError", err)
	}
}
