package cuda

import "unsafe"

// Buffer is an allocation from a Pool. It records the element type and
// count of the data it holds and exposes typed slice views over the raw
// memory. The zero value is the "absent buffer": IsNil reports true and
// it is the signal for an optional input (such as sample weights) that
// was not provided.
//
// A Buffer does not own its memory; the Pool it came from does. Free it
// through the same pool (or Handle) that allocated it.
type Buffer struct {
	ptr   unsafe.Pointer
	bytes int
	dtype DType
	n     int
}

// IsNil reports whether the buffer is the absent zero value.
func (b Buffer) IsNil() bool {
	return b.ptr == nil
}

// Len returns the number of elements.
func (b Buffer) Len() int {
	return b.n
}

// DType returns the element type recorded at allocation.
func (b Buffer) DType() DType {
	return b.dtype
}

// Bytes returns the size of the buffer in bytes.
func (b Buffer) Bytes() int {
	return b.bytes
}

// Float32 returns a float32 slice view of the buffer, or nil when the
// buffer is absent or was not allocated as Float32.
func (b Buffer) Float32() []float32 {
	if b.ptr == nil || b.dtype != Float32 {
		return nil
	}
	return unsafe.Slice((*float32)(b.ptr), b.n)
}

// Float64 returns a float64 slice view of the buffer, or nil when the
// buffer is absent or was not allocated as Float64.
func (b Buffer) Float64() []float64 {
	if b.ptr == nil || b.dtype != Float64 {
		return nil
	}
	return unsafe.Slice((*float64)(b.ptr), b.n)
}

// Int64 returns an int64 slice view of the buffer, or nil when the
// buffer is absent or was not allocated as Int64.
func (b Buffer) Int64() []int64 {
	if b.ptr == nil || b.dtype != Int64 {
		return nil
	}
	return unsafe.Slice((*int64)(b.ptr), b.n)
}

// Raw returns a byte slice view over the whole buffer.
func (b Buffer) Raw() []byte {
	if b.ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.ptr), b.bytes)
}

// Zero clears the buffer. Output buffers handed to embedding-fit must be
// zeroed first; callers use this to satisfy that precondition.
func (b Buffer) Zero() {
	raw := b.Raw()
	for i := range raw {
		raw[i] = 0
	}
}
