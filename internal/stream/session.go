package stream

import (
	"sync"
	"sync/atomic"
)

type State int

const (
	StateIdle State = iota
	StateStreaming
	StateDraining
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session owns one client's audio pipeline. The transport owns the
// session's existence: it is created on connect and torn down on
// disconnect. Only the queue, worker handle, and state are mutable.
type Session struct {
	id string

	mu     sync.Mutex
	state  State
	queue  chan []byte
	worker *worker

	// ranOnce records that a worker has ever been installed. The worker
	// handle itself clears on exit, so it cannot distinguish a restart
	// from a first start.
	ranOnce bool
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// currentWorker returns the active worker handle, nil when idle.
func (s *Session) currentWorker() *worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worker
}

// clearWorker drops the handle only if it still points at w, so a
// stale worker exiting late cannot clobber its replacement.
func (s *Session) clearWorker(w *worker) {
	s.mu.Lock()
	if s.worker == w {
		s.worker = nil
	}
	s.mu.Unlock()
}

// purgeQueue discards all queued chunks and returns how many were
// dropped. Callers must only run this after the owning worker has
// confirmed exit.
func (s *Session) purgeQueue() int {
	purged := 0
	for {
		select {
		case <-s.queue:
			purged++
		default:
			return purged
		}
	}
}

// worker is the ownership handle for the single background goroutine
// driving one session's vendor stream. stop is the cancellation token;
// done is closed when the goroutine has fully exited.
type worker struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	draining atomic.Bool
	failed   atomic.Bool
}

func newWorker() *worker {
	return &worker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (w *worker) signalStop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}

func (w *worker) stopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}
