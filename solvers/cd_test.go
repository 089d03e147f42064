package solvers

import (
	"testing"

	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/native/nativetest"
	"github.com/Zhylkaaa/cuml/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func newTestCD(t *testing.T, fake *nativetest.Fake, opts ...Option) *CD {
	t.Helper()
	h := cuda.NewHandle()
	t.Cleanup(func() { _ = h.Close() })
	opts = append([]Option{WithBackend(fake), WithHandle(h)}, opts...)
	c, err := NewCD(opts...)
	if err != nil {
		t.Fatalf("NewCD failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testData(rows, cols int) (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, float64(i*cols+j))
		}
		y.Set(i, 0, float64(i))
	}
	return X, y
}

func TestCDFitPredictShapes(t *testing.T) {
	tests := []struct {
		name string
		rows int
		cols int
	}{
		{"tall", 20, 3},
		{"square", 5, 5},
		{"single feature", 8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := nativetest.New()
			c := newTestCD(t, fake)
			X, y := testData(tt.rows, tt.cols)

			if err := c.Fit(X, y); err != nil {
				t.Fatalf("Fit failed: %v", err)
			}

			preds, err := c.Predict(X)
			if err != nil {
				t.Fatalf("Predict failed: %v", err)
			}
			pr, pc := preds.Dims()
			if pr != tt.rows || pc != 1 {
				t.Errorf("prediction shape = (%d, %d), want (%d, 1)", pr, pc, tt.rows)
			}
			if got := len(c.Coef()); got != tt.cols {
				t.Errorf("len(Coef) = %d, want %d", got, tt.cols)
			}
		})
	}
}

func TestCDUnsupportedLossFailsAtConstruction(t *testing.T) {
	_, err := NewCD(WithLoss("hinge"))
	if !errors.Is(err, errors.ErrNotImplemented) {
		t.Fatalf("NewCD(hinge) = %v, want ErrNotImplemented", err)
	}
}

func TestCDHyperparameterValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"negative alpha", WithAlpha(-1)},
		{"l1_ratio above one", WithL1Ratio(1.5)},
		{"l1_ratio below zero", WithL1Ratio(-0.1)},
		{"zero max_iter", WithMaxIter(0)},
		{"negative tol", WithTol(-1e-3)},
		{"int64 dtype", WithDType(cuda.Int64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCD(tt.opt); err == nil {
				t.Error("expected construction to fail")
			}
		})
	}
}

func TestCDPredictDimensionMismatch(t *testing.T) {
	fake := nativetest.New()
	c := newTestCD(t, fake)
	X, y := testData(10, 4)

	if err := c.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	XBad, _ := testData(10, 3)
	_, err := c.Predict(XBad)
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("Predict with wrong columns = %v, want DimensionError", err)
	}
	if dimErr.Expected != 4 || dimErr.Got != 3 || dimErr.Axis != 1 {
		t.Errorf("DimensionError fields = %+v", dimErr)
	}
}

func TestCDSampleWeightValidationBeforeNativeCall(t *testing.T) {
	fake := nativetest.New()
	c := newTestCD(t, fake)
	X, y := testData(10, 2)

	err := c.FitWeighted(X, y, []float64{1, 2, 3}) // wrong length
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("FitWeighted with short weights = %v, want DimensionError", err)
	}
	if len(fake.Calls()) != 0 {
		t.Errorf("native backend saw %d calls; validation must happen first", len(fake.Calls()))
	}
	if c.IsFitted() {
		t.Error("failed fit must not leave fitted state")
	}
}

func TestCDSampleWeightPassedThrough(t *testing.T) {
	fake := nativetest.New()
	c := newTestCD(t, fake)
	X, y := testData(6, 2)

	w := []float64{1, 1, 1, 2, 2, 2}
	if err := c.FitWeighted(X, y, w); err != nil {
		t.Fatalf("FitWeighted failed: %v", err)
	}

	calls := fake.Calls()
	if len(calls) != 1 || !calls[0].HasWeights {
		t.Errorf("calls = %+v, want one weighted fit", calls)
	}
}

func TestCDPrecisionRouting(t *testing.T) {
	tests := []struct {
		name      string
		dtype     cuda.DType
		fitOp     string
		predictOp string
	}{
		{"float64", cuda.Float64, nativetest.OpCDFit64, nativetest.OpCDPredict64},
		{"float32", cuda.Float32, nativetest.OpCDFit32, nativetest.OpCDPredict32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := nativetest.New()
			c := newTestCD(t, fake, WithDType(tt.dtype))
			X, y := testData(8, 3)

			if err := c.Fit(X, y); err != nil {
				t.Fatalf("Fit failed: %v", err)
			}
			if _, err := c.Predict(X); err != nil {
				t.Fatalf("Predict failed: %v", err)
			}

			if n := fake.CallCount(tt.fitOp); n != 1 {
				t.Errorf("%s called %d times, want 1", tt.fitOp, n)
			}
			if n := fake.CallCount(tt.predictOp); n != 1 {
				t.Errorf("%s called %d times, want 1", tt.predictOp, n)
			}
		})
	}
}

func TestCDRefitReplacesState(t *testing.T) {
	fake := nativetest.New()
	h := cuda.NewHandle()
	defer h.Close()
	c, err := NewCD(WithBackend(fake), WithHandle(h))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	X1, y1 := testData(10, 4)
	if err := c.Fit(X1, y1); err != nil {
		t.Fatal(err)
	}

	X2, y2 := testData(6, 2)
	if err := c.Fit(X2, y2); err != nil {
		t.Fatal(err)
	}

	if c.NFeatures() != 2 {
		t.Errorf("NFeatures = %d after refit, want 2", c.NFeatures())
	}
	if got := len(c.Coef()); got != 2 {
		t.Errorf("len(Coef) = %d after refit, want 2", got)
	}
	// One live buffer: the current coefficient vector. Staged inputs and
	// the first fit's coefficients must all be back in the pool.
	if live := h.Pool().Live(); live != 1 {
		t.Errorf("pool has %d live buffers after refit, want 1", live)
	}
}

func TestCDNativeFailureIsFatal(t *testing.T) {
	fake := nativetest.New()
	boom := errors.New("solver diverged")
	fake.FailWith(nativetest.OpCDFit64, boom)

	h := cuda.NewHandle()
	defer h.Close()
	c, err := NewCD(WithBackend(fake), WithHandle(h))
	if err != nil {
		t.Fatal(err)
	}

	X, y := testData(10, 2)
	err = c.Fit(X, y)
	var natErr *errors.NativeError
	if !errors.As(err, &natErr) {
		t.Fatalf("Fit = %v, want NativeError", err)
	}
	if !errors.Is(err, boom) {
		t.Error("NativeError should carry the backend cause")
	}
	if c.IsFitted() {
		t.Error("failed fit must not leave fitted state")
	}
	if live := h.Pool().Live(); live != 0 {
		t.Errorf("pool has %d live buffers after failed fit, want 0", live)
	}
}

func TestCDNoBackend(t *testing.T) {
	h := cuda.NewHandle()
	defer h.Close()
	// No explicit backend: resolution goes through the registry, which has
	// no available entry in tests.
	c, err := NewCD(WithHandle(h))
	if err != nil {
		t.Fatal(err)
	}

	X, y := testData(4, 2)
	err = c.Fit(X, y)
	var nbErr *errors.NoBackendError
	if !errors.As(err, &nbErr) {
		t.Fatalf("Fit without a backend = %v, want NoBackendError", err)
	}
}

func TestCDPredictBeforeFit(t *testing.T) {
	fake := nativetest.New()
	c := newTestCD(t, fake)

	X, _ := testData(4, 2)
	_, err := c.Predict(X)
	var nfErr *errors.NotFittedError
	if !errors.As(err, &nfErr) {
		t.Fatalf("Predict before Fit = %v, want NotFittedError", err)
	}
}

func TestCDScore(t *testing.T) {
	fake := nativetest.New()
	c := newTestCD(t, fake)
	X, _ := testData(5, 2)

	// The fake predicts intercept + i; score against exactly that.
	y := mat.NewDense(5, 1, []float64{0.5, 1.5, 2.5, 3.5, 4.5})
	if err := c.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	score, err := c.Score(X, y)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score < 0.999 {
		t.Errorf("score = %f, want ~1", score)
	}
}

func TestCDCloseTwice(t *testing.T) {
	fake := nativetest.New()
	c := newTestCD(t, fake)
	X, y := testData(4, 2)
	if err := c.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
