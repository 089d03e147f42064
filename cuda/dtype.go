// Package cuda provides the device runtime the estimators are built on:
// typed device buffers, a pooled allocator, ordered asynchronous execution
// streams, and the Handle that binds one stream and one pool together as
// the unit an estimator owns.
//
// The package models the execution contract of a GPU runtime (ordered
// streams, explicit synchronization points, device-resident buffers)
// without containing any kernels. The numerical work happens behind the
// native boundary; this package only moves bytes and orders work.
package cuda

// DType identifies the element type of a device buffer.
type DType int

const (
	// Float32 is 32-bit IEEE 754 floating point.
	Float32 DType = iota
	// Float64 is 64-bit IEEE 754 floating point.
	Float64
	// Int64 is 64-bit signed integer, used for neighbor index output.
	Int64
)

// Size returns the element size in bytes.
func (d DType) Size() int {
	switch d {
	case Float32:
		return 4
	case Float64, Int64:
		return 8
	default:
		return 0
	}
}

// String returns the canonical name of the dtype.
func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// Order identifies the memory layout of a staged matrix.
type Order int

const (
	// RowMajor stores a matrix row by row.
	RowMajor Order = iota
	// ColMajor stores a matrix column by column.
	ColMajor
)

// String returns the canonical name of the layout.
func (o Order) String() string {
	if o == ColMajor {
		return "col_major"
	}
	return "row_major"
}
