// Package input stages gonum matrices into device buffers and copies
// results back. It owns the borrow contract of the native boundary: a
// staged input buffer lives for exactly one native call and is freed by
// the same function that staged it, whether the call succeeded or not.
//
// The solver entry points take column-major data, the embedding and
// neighbor entry points row-major; estimator code picks the layout here
// and never hand-rolls staging.
package input

import (
	"github.com/Zhylkaaa/cuml/core/parallel"
	"github.com/Zhylkaaa/cuml/cuda"
	"github.com/Zhylkaaa/cuml/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// parallelThreshold is the row count above which staging copies run on all
// cores.
const parallelThreshold = 256

// ToDevice validates that X is a non-empty 2-D matrix and stages it into a
// buffer from h's pool, in the requested dtype and layout. Float32 staging
// narrows the float64 host values; the caller decides whether that
// narrowing was sanctioned. The returned buffer belongs to the caller and
// must be freed on h.
func ToDevice(h *cuda.Handle, X mat.Matrix, dtype cuda.DType, order cuda.Order) (cuda.Buffer, int, int, error) {
	if X == nil {
		return cuda.Buffer{}, 0, 0, errors.NewValueError("input.ToDevice", "X must not be nil")
	}
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return cuda.Buffer{}, 0, 0, errors.NewModelError("input.ToDevice", "empty data", errors.ErrEmptyData)
	}
	if dtype != cuda.Float32 && dtype != cuda.Float64 {
		return cuda.Buffer{}, 0, 0, errors.NewValueError("input.ToDevice", "dtype must be float32 or float64")
	}

	buf, err := h.Alloc(dtype, rows*cols)
	if err != nil {
		return cuda.Buffer{}, 0, 0, err
	}

	switch dtype {
	case cuda.Float32:
		dst := buf.Float32()
		parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				for j := 0; j < cols; j++ {
					dst[flatIndex(i, j, rows, cols, order)] = float32(X.At(i, j))
				}
			}
		})
	case cuda.Float64:
		dst := buf.Float64()
		parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				for j := 0; j < cols; j++ {
					dst[flatIndex(i, j, rows, cols, order)] = X.At(i, j)
				}
			}
		})
	}

	return buf, rows, cols, nil
}

func flatIndex(i, j, rows, cols int, order cuda.Order) int {
	if order == cuda.ColMajor {
		return j*rows + i
	}
	return i*cols + j
}

// VecToDevice validates that y is a single-column matrix and stages it.
func VecToDevice(h *cuda.Handle, y mat.Matrix, dtype cuda.DType) (cuda.Buffer, int, error) {
	if y == nil {
		return cuda.Buffer{}, 0, errors.NewValueError("input.VecToDevice", "vector must not be nil")
	}
	rows, cols := y.Dims()
	if cols != 1 {
		return cuda.Buffer{}, 0, errors.NewValueError("input.VecToDevice", "expected a single-column matrix")
	}
	buf, _, _, err := ToDevice(h, y, dtype, cuda.ColMajor)
	if err != nil {
		return cuda.Buffer{}, 0, err
	}
	return buf, rows, nil
}

// SliceToDevice stages a host float64 slice, converting to the requested
// dtype. Used for sample weights.
func SliceToDevice(h *cuda.Handle, v []float64, dtype cuda.DType) (cuda.Buffer, error) {
	if len(v) == 0 {
		return cuda.Buffer{}, errors.NewModelError("input.SliceToDevice", "empty data", errors.ErrEmptyData)
	}
	buf, err := h.Alloc(dtype, len(v))
	if err != nil {
		return cuda.Buffer{}, err
	}
	switch dtype {
	case cuda.Float32:
		dst := buf.Float32()
		for i, x := range v {
			dst[i] = float32(x)
		}
	case cuda.Float64:
		if err := cuda.Memcpy(buf, v, len(v)*8, cuda.MemcpyHostToDevice); err != nil {
			_ = h.Free(buf)
			return cuda.Buffer{}, err
		}
	default:
		_ = h.Free(buf)
		return cuda.Buffer{}, errors.NewValueError("input.SliceToDevice", "dtype must be float32 or float64")
	}
	return buf, nil
}

// ToHost copies a device buffer back into a freshly allocated rows × cols
// matrix. Ownership of the result passes to the caller; the buffer is not
// freed.
func ToHost(buf cuda.Buffer, rows, cols int, order cuda.Order) (*mat.Dense, error) {
	if buf.IsNil() {
		return nil, errors.NewValueError("input.ToHost", "buffer is absent")
	}
	if buf.Len() != rows*cols {
		return nil, errors.NewDimensionError("input.ToHost", rows*cols, buf.Len(), 0)
	}

	out := mat.NewDense(rows, cols, nil)
	switch buf.DType() {
	case cuda.Float32:
		src := buf.Float32()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				out.Set(i, j, float64(src[flatIndex(i, j, rows, cols, order)]))
			}
		}
	case cuda.Float64:
		src := buf.Float64()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				out.Set(i, j, src[flatIndex(i, j, rows, cols, order)])
			}
		}
	default:
		return nil, errors.NewValueError("input.ToHost", "buffer dtype must be float32 or float64")
	}
	return out, nil
}

// VecToHost copies a device buffer into a length-n column matrix.
func VecToHost(buf cuda.Buffer, n int) (*mat.Dense, error) {
	return ToHost(buf, n, 1, cuda.ColMajor)
}

// CoefToHost copies a fitted coefficient buffer into a host float64 slice.
func CoefToHost(buf cuda.Buffer) ([]float64, error) {
	if buf.IsNil() {
		return nil, errors.NewValueError("input.CoefToHost", "buffer is absent")
	}
	out := make([]float64, buf.Len())
	switch buf.DType() {
	case cuda.Float32:
		for i, v := range buf.Float32() {
			out[i] = float64(v)
		}
	case cuda.Float64:
		if err := cuda.Memcpy(out, buf, buf.Len()*8, cuda.MemcpyDeviceToHost); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewValueError("input.CoefToHost", "buffer dtype must be float32 or float64")
	}
	return out, nil
}
