package cuda

import "sync"

// Handle owns one Stream and one Pool: the execution context an estimator
// binds to. Separate estimator instances bound to separate handles run
// independently of each other; a single handle serializes the work of the
// instance that owns it. Handles are not safe for concurrent use by
// multiple goroutines.
type Handle struct {
	stream *Stream
	pool   *Pool
	device *Device
}

// NewHandle creates a handle with a fresh stream and pool on the current
// device.
func NewHandle() *Handle {
	return &Handle{
		stream: NewStream(),
		pool:   NewPool(),
		device: CurrentDevice(),
	}
}

// Alloc allocates a buffer from the handle's pool.
func (h *Handle) Alloc(dtype DType, n int) (Buffer, error) {
	return h.pool.Alloc(dtype, n)
}

// Free returns a buffer to the handle's pool.
func (h *Handle) Free(b Buffer) error {
	return h.pool.Free(b)
}

// Submit enqueues a task on the handle's stream.
func (h *Handle) Submit(task func()) {
	h.stream.Submit(task)
}

// Sync blocks until all work submitted to the handle's stream has
// completed.
func (h *Handle) Sync() {
	h.stream.Synchronize()
}

// Close synchronizes and shuts down the handle's stream. Buffers still
// allocated from the pool stay valid until the pool itself is unreachable,
// but a closed handle accepts no further work.
func (h *Handle) Close() error {
	h.stream.Close()
	return nil
}

// Device returns the device the handle is bound to.
func (h *Handle) Device() *Device {
	return h.device
}

// Stream returns the handle's stream.
func (h *Handle) Stream() *Stream {
	return h.stream
}

// Pool returns the handle's memory pool.
func (h *Handle) Pool() *Pool {
	return h.pool
}

var (
	defaultHandle     *Handle
	defaultHandleOnce sync.Once
)

// Default returns the process-wide default handle, creating it on first
// use. Estimators constructed without an explicit handle share it.
func Default() *Handle {
	defaultHandleOnce.Do(func() {
		defaultHandle = NewHandle()
	})
	return defaultHandle
}
