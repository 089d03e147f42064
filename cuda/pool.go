package cuda

import (
	"sync"
	"unsafe"

	"github.com/Zhylkaaa/cuml/pkg/errors"
)

// Allocation errors.
var (
	// ErrDoubleFree is returned when a buffer is freed twice.
	ErrDoubleFree = errors.New("cuda: double free detected")

	// ErrUnknownBuffer is returned when a buffer is freed through a pool
	// that did not allocate it.
	ErrUnknownBuffer = errors.New("cuda: buffer not found in allocation pool")
)

const allocAlignment = 64 // cache line

// Pool is a free-list allocator standing in for device memory. It reuses
// previously freed blocks, aligns allocations to 64 bytes, tracks used and
// peak bytes, and detects double frees. It is deliberately simple; the real
// GPU allocator lives in the native library.
type Pool struct {
	mu         sync.Mutex
	allocated  map[uintptr]*allocation
	freeList   []*allocation
	totalAlloc int64
	peakAlloc  int64
}

type allocation struct {
	ptr     unsafe.Pointer
	size    int
	used    bool
	backing []byte // keeps the block reachable for the GC
}

// NewPool creates an empty memory pool.
func NewPool() *Pool {
	return &Pool{
		allocated: make(map[uintptr]*allocation),
	}
}

// Alloc returns a buffer holding n elements of the given dtype.
func (p *Pool) Alloc(dtype DType, n int) (Buffer, error) {
	if n <= 0 {
		return Buffer{}, errors.NewValueError("Pool.Alloc", "element count must be positive")
	}
	if dtype.Size() == 0 {
		return Buffer{}, errors.NewValueError("Pool.Alloc", "unknown dtype")
	}
	size := n * dtype.Size()
	alignedSize := (size + allocAlignment - 1) &^ (allocAlignment - 1)

	p.mu.Lock()
	defer p.mu.Unlock()

	// Reuse from the free list when a large enough block exists.
	for i, alloc := range p.freeList {
		if alloc.size >= alignedSize {
			p.freeList = append(p.freeList[:i], p.freeList[i+1:]...)
			alloc.used = true
			p.account(int64(alloc.size))
			return Buffer{ptr: alloc.ptr, bytes: size, dtype: dtype, n: n}, nil
		}
	}

	buf := make([]byte, alignedSize)
	ptr := unsafe.Pointer(&buf[0])
	p.allocated[uintptr(ptr)] = &allocation{
		ptr:     ptr,
		size:    alignedSize,
		used:    true,
		backing: buf,
	}
	p.account(int64(alignedSize))
	return Buffer{ptr: ptr, bytes: size, dtype: dtype, n: n}, nil
}

func (p *Pool) account(size int64) {
	p.totalAlloc += size
	if p.totalAlloc > p.peakAlloc {
		p.peakAlloc = p.totalAlloc
	}
}

// Free returns a buffer's block to the pool. Freeing the absent zero-value
// Buffer is a no-op; freeing the same buffer twice is an error.
func (p *Pool) Free(b Buffer) error {
	if b.IsNil() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	alloc, ok := p.allocated[uintptr(b.ptr)]
	if !ok {
		return errors.WithStack(ErrUnknownBuffer)
	}
	if !alloc.used {
		return errors.WithStack(ErrDoubleFree)
	}

	alloc.used = false
	p.freeList = append(p.freeList, alloc)
	p.totalAlloc -= int64(alloc.size)
	return nil
}

// Stats returns the currently used and peak allocated bytes.
func (p *Pool) Stats() (used, peak int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalAlloc, p.peakAlloc
}

// Live returns the number of buffers currently allocated and not freed.
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	live := 0
	for _, alloc := range p.allocated {
		if alloc.used {
			live++
		}
	}
	return live
}
