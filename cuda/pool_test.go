package cuda

import (
	"testing"

	"github.com/Zhylkaaa/cuml/pkg/errors"
)

func TestPoolAllocFree(t *testing.T) {
	pool := NewPool()

	buf, err := pool.Alloc(Float32, 100)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if buf.Len() != 100 || buf.DType() != Float32 {
		t.Errorf("buffer = (%d, %v), want (100, Float32)", buf.Len(), buf.DType())
	}
	if buf.Bytes() != 400 {
		t.Errorf("Bytes() = %d, want 400", buf.Bytes())
	}
	if pool.Live() != 1 {
		t.Errorf("Live() = %d, want 1", pool.Live())
	}

	if err := pool.Free(buf); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if pool.Live() != 0 {
		t.Errorf("Live() = %d after free, want 0", pool.Live())
	}
}

func TestPoolDoubleFree(t *testing.T) {
	pool := NewPool()

	buf, err := pool.Alloc(Float64, 10)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if err := pool.Free(buf); err != nil {
		t.Fatalf("first Free failed: %v", err)
	}
	if err := pool.Free(buf); !errors.Is(err, ErrDoubleFree) {
		t.Errorf("second Free = %v, want ErrDoubleFree", err)
	}
}

func TestPoolFreeAbsentBuffer(t *testing.T) {
	pool := NewPool()
	if err := pool.Free(Buffer{}); err != nil {
		t.Errorf("freeing the absent buffer should be a no-op, got %v", err)
	}
}

func TestPoolReuse(t *testing.T) {
	pool := NewPool()

	a, _ := pool.Alloc(Float32, 256)
	if err := pool.Free(a); err != nil {
		t.Fatal(err)
	}

	b, _ := pool.Alloc(Float32, 256)
	if b.Float32() == nil {
		t.Fatal("reused buffer has no float32 view")
	}
	used, peak := pool.Stats()
	if used <= 0 {
		t.Errorf("used = %d, want > 0 with one live buffer", used)
	}
	if peak < used {
		t.Errorf("peak %d < used %d", peak, used)
	}
}

func TestPoolAllocInvalid(t *testing.T) {
	pool := NewPool()
	if _, err := pool.Alloc(Float32, 0); err == nil {
		t.Error("Alloc with zero count should fail")
	}
	if _, err := pool.Alloc(Float32, -1); err == nil {
		t.Error("Alloc with negative count should fail")
	}
}

func TestBufferViews(t *testing.T) {
	pool := NewPool()

	f32, _ := pool.Alloc(Float32, 4)
	if f32.Float32() == nil {
		t.Error("Float32 view on a Float32 buffer should not be nil")
	}
	if f32.Float64() != nil {
		t.Error("Float64 view on a Float32 buffer should be nil")
	}

	i64, _ := pool.Alloc(Int64, 4)
	if i64.Int64() == nil {
		t.Error("Int64 view on an Int64 buffer should not be nil")
	}

	var absent Buffer
	if !absent.IsNil() {
		t.Error("zero-value buffer should be absent")
	}
	if absent.Float32() != nil || absent.Raw() != nil {
		t.Error("views on the absent buffer should be nil")
	}
}

func TestBufferZero(t *testing.T) {
	pool := NewPool()

	buf, _ := pool.Alloc(Float32, 8)
	view := buf.Float32()
	for i := range view {
		view[i] = float32(i + 1)
	}

	buf.Zero()
	for i, v := range view {
		if v != 0 {
			t.Fatalf("element %d = %f after Zero, want 0", i, v)
		}
	}
}

func TestMemcpy(t *testing.T) {
	pool := NewPool()

	src := []float64{1, 2, 3, 4}
	buf, _ := pool.Alloc(Float64, 4)
	if err := Memcpy(buf, src, 4*8, MemcpyHostToDevice); err != nil {
		t.Fatalf("Memcpy to device failed: %v", err)
	}

	dst := make([]float64, 4)
	if err := Memcpy(dst, buf, 4*8, MemcpyDeviceToHost); err != nil {
		t.Fatalf("Memcpy to host failed: %v", err)
	}
	for i := range src {
		if dst[i] != src[i] {
			t.Fatalf("round trip mismatch at %d: %f != %f", i, dst[i], src[i])
		}
	}

	if err := Memcpy(buf, "not a slice", 8, MemcpyDefault); err == nil {
		t.Error("Memcpy with an unsupported source type should fail")
	}
}
