package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewDimensionError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		expected int
		got      int
		axis     int
		wantMsg  string
	}{
		{
			name:     "feature axis",
			op:       "CD.Predict",
			expected: 4,
			got:      3,
			axis:     1,
			wantMsg:  "cuml: CD.Predict: dimension mismatch on axis 1 (features). Expected 4, got 3",
		},
		{
			name:     "row axis",
			op:       "CD.Fit",
			expected: 10,
			got:      8,
			axis:     0,
			wantMsg:  "cuml: CD.Fit: dimension mismatch on axis 0 (rows). Expected 10, got 8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError(tt.op, tt.expected, tt.got, tt.axis)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var dimErr *DimensionError
			if !As(err, &dimErr) {
				t.Fatal("error should be castable to *DimensionError")
			}
			if dimErr.Expected != tt.expected || dimErr.Got != tt.got {
				t.Errorf("fields = (%d, %d), want (%d, %d)", dimErr.Expected, dimErr.Got, tt.expected, tt.got)
			}

			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("expected stack trace to contain test file name")
			}
		})
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("UMAP", "Transform")

	var nfErr *NotFittedError
	if !As(err, &nfErr) {
		t.Fatal("error should be castable to *NotFittedError")
	}
	if nfErr.ModelName != "UMAP" || nfErr.Method != "Transform" {
		t.Errorf("unexpected fields: %+v", nfErr)
	}
	if !strings.Contains(err.Error(), "not fitted") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestNewNativeError(t *testing.T) {
	cause := New("device fault")
	err := NewNativeError("UMAP.Fit", "fake", cause)

	var natErr *NativeError
	if !As(err, &natErr) {
		t.Fatal("error should be castable to *NativeError")
	}
	if natErr.Backend != "fake" {
		t.Errorf("Backend = %q, want %q", natErr.Backend, "fake")
	}
	if !Is(err, cause) {
		t.Error("NativeError should unwrap to its cause")
	}
}

func TestNewNoBackendError(t *testing.T) {
	err := NewNoBackendError("CD.Fit")

	var nbErr *NoBackendError
	if !As(err, &nbErr) {
		t.Fatal("error should be castable to *NoBackendError")
	}
	if !strings.Contains(err.Error(), "no native backend") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestErrNotImplementedWrapping(t *testing.T) {
	err := Wrapf(ErrNotImplemented, "loss %q is not supported", "hinge")
	if !Is(err, ErrNotImplemented) {
		t.Error("wrapped error should still match ErrNotImplemented")
	}
	if !strings.Contains(err.Error(), "hinge") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestWarningHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(func(w error) {})

	w := NewDataConversionWarning("float64", "float32", "UMAP works in float32")
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler was not invoked")
	}
	var convWarn *DataConversionWarning
	if !As(captured, &convWarn) {
		t.Fatal("captured warning should be a *DataConversionWarning")
	}
	if convWarn.ToType != "float32" {
		t.Errorf("ToType = %q, want %q", convWarn.ToType, "float32")
	}
}

func TestRecover(t *testing.T) {
	panicky := func() (err error) {
		defer Recover(&err, "panicky")
		panic("native library crashed")
	}

	err := panicky()
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatal("error should be castable to *PanicError")
	}
	if panicErr.Operation != "panicky" {
		t.Errorf("Operation = %q, want %q", panicErr.Operation, "panicky")
	}
}
