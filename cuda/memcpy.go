package cuda

import (
	"fmt"
	"unsafe"

	"github.com/Zhylkaaa/cuml/pkg/errors"
)

const defaultTotalMem = 16 * 1024 * 1024 * 1024 // 16 GiB fallback

// MemcpyKind specifies the direction of a memory transfer. The constants
// mirror the CUDA API; in this runtime all memory is host-accessible, so
// the kind is informational.
type MemcpyKind int

const (
	MemcpyHostToHost     MemcpyKind = iota // host to host transfer
	MemcpyHostToDevice                     // host to device transfer
	MemcpyDeviceToHost                     // device to host transfer
	MemcpyDeviceToDevice                   // device to device transfer
	MemcpyDefault                          // infer direction
)

// Memcpy copies size bytes between buffers and host slices. Destination
// and source may each be a Buffer, []byte, []float32, []float64 or
// []int64.
func Memcpy(dst, src interface{}, size int, _ MemcpyKind) error {
	dstPtr, err := memcpyPointer("Memcpy", "dst", dst)
	if err != nil {
		return err
	}
	srcPtr, err := memcpyPointer("Memcpy", "src", src)
	if err != nil {
		return err
	}

	if dstPtr != nil && srcPtr != nil && size > 0 {
		copy(unsafe.Slice((*byte)(dstPtr), size), unsafe.Slice((*byte)(srcPtr), size))
	}
	return nil
}

func memcpyPointer(op, arg string, v interface{}) (unsafe.Pointer, error) {
	switch x := v.(type) {
	case Buffer:
		return x.ptr, nil
	case []byte:
		if len(x) == 0 {
			return nil, nil
		}
		return unsafe.Pointer(&x[0]), nil
	case []float32:
		if len(x) == 0 {
			return nil, nil
		}
		return unsafe.Pointer(&x[0]), nil
	case []float64:
		if len(x) == 0 {
			return nil, nil
		}
		return unsafe.Pointer(&x[0]), nil
	case []int64:
		if len(x) == 0 {
			return nil, nil
		}
		return unsafe.Pointer(&x[0]), nil
	default:
		return nil, errors.NewValueError(op, fmt.Sprintf("unsupported %s type: %T", arg, v))
	}
}
