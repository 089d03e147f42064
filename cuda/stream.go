package cuda

import (
	"sync"
	"sync/atomic"
)

var streamID int32

// Stream is an ordered queue of asynchronous operations. Tasks submitted to
// one stream execute in submission order on a dedicated worker goroutine;
// tasks on distinct streams may run concurrently. Synchronize blocks the
// caller until every task submitted so far has completed: the explicit
// synchronization point each estimator call ends with.
type Stream struct {
	id    int
	tasks chan func()
	done  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewStream creates a stream and starts its worker.
func NewStream() *Stream {
	s := &Stream{
		id:    int(atomic.AddInt32(&streamID, 1)),
		tasks: make(chan func(), 1000),
		done:  make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
	close(s.done)
}

// ID returns the stream's identifier.
func (s *Stream) ID() int {
	return s.id
}

// Submit enqueues a task. Submit must not be called after Close.
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// Synchronize blocks until all submitted tasks have completed.
func (s *Stream) Synchronize() {
	s.wg.Wait()
}

// Close drains the stream and stops its worker. Close synchronizes first,
// so no submitted task is lost. It is safe to call Close more than once.
func (s *Stream) Close() {
	s.once.Do(func() {
		s.wg.Wait()
		close(s.tasks)
		<-s.done
	})
}
