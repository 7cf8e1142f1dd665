package stream

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hireloop/interviewai/internal/config"
	"github.com/hireloop/interviewai/internal/transcriber"
	"github.com/hireloop/interviewai/internal/transport"
)

// Registry maps client identifiers to their streaming sessions and
// runs every lifecycle transition. All methods are safe for concurrent
// use; per-chunk and per-event failures are logged, never raised back
// to the transport loop.
type Registry struct {
	cfg         *config.Config
	transcriber transcriber.Transcriber
	emitter     transport.Emitter

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(cfg *config.Config, stt transcriber.Transcriber, emitter transport.Emitter) *Registry {
	return &Registry{
		cfg:         cfg,
		transcriber: stt,
		emitter:     emitter,
		sessions:    make(map[string]*Session),
	}
}

// Connect allocates a new idle session and returns its id.
func (r *Registry) Connect() string {
	s := &Session{
		id:    uuid.NewString(),
		state: StateIdle,
		queue: make(chan []byte, r.cfg.AudioQueueCapacity),
	}
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	slog.Info("session connected", "session_id", s.id)
	return s.id
}

func (r *Registry) lookup(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	return s, ok
}

// SessionCount reports how many sessions are currently registered.
func (r *Registry) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SessionState reports the state of a registered session.
func (r *Registry) SessionState(sessionID string) (State, bool) {
	s, ok := r.lookup(sessionID)
	if !ok {
		return StateClosed, false
	}
	return s.State(), true
}

// HandleAudioChunk appends one chunk to the session queue. Undersized
// chunks are dropped as likely-corrupt rather than forwarded, and a
// full queue drops the chunk instead of stalling the transport loop.
func (r *Registry) HandleAudioChunk(sessionID string, chunk []byte) {
	s, ok := r.lookup(sessionID)
	if !ok {
		slog.Warn("audio chunk for unknown session dropped", "session_id", sessionID, "chunk_bytes", len(chunk))
		return
	}
	if len(chunk) < r.cfg.MinAudioChunkBytes {
		slog.Warn("undersized audio chunk dropped", "session_id", sessionID, "chunk_bytes", len(chunk), "min_bytes", r.cfg.MinAudioChunkBytes)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		slog.Warn("audio chunk for closed session dropped", "session_id", sessionID, "chunk_bytes", len(chunk))
		return
	}
	select {
	case s.queue <- chunk:
	default:
		slog.Warn("audio queue full, chunk dropped", "session_id", sessionID, "chunk_bytes", len(chunk), "capacity", r.cfg.AudioQueueCapacity)
	}
}

// Start launches the session's worker, first stopping and joining any
// worker that is already running so two never run concurrently. Stale
// queued chunks from a previous run are cleared before the fresh start.
func (r *Registry) Start(sessionID string) error {
	s, ok := r.lookup(sessionID)
	if !ok {
		return fmt.Errorf("unknown session %s", sessionID)
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return fmt.Errorf("session %s is closed", sessionID)
	}
	prev := s.worker
	s.mu.Unlock()

	if prev != nil {
		slog.Info("restarting session worker", "session_id", sessionID)
		prev.signalStop()
		if !r.joinWorker(prev) {
			return fmt.Errorf("previous worker for session %s did not exit within %v", sessionID, r.cfg.WorkerJoinTimeout)
		}
	}

	s.mu.Lock()
	if s.worker != nil {
		// Another Start won the race while we were joining.
		s.mu.Unlock()
		return fmt.Errorf("session %s already has an active worker", sessionID)
	}
	purged := 0
	if s.ranOnce {
		// Chunks left over from a previous run are stale; audio
		// queued before the first start is not, and must survive.
		purged = s.purgeQueue()
	}
	w := newWorker()
	s.worker = w
	s.ranOnce = true
	s.state = StateStreaming
	s.mu.Unlock()

	if purged > 0 {
		slog.Info("cleared stale queued chunks before start", "session_id", sessionID, "purged", purged)
	}
	slog.Info("session streaming started", "session_id", sessionID)
	go r.runWorker(s, w)
	return nil
}

// PrepareStop marks the session as draining without stopping the
// worker. The worker switches to the short poll timeout so it notices
// queue exhaustion promptly and ends the stream on its own.
func (r *Registry) PrepareStop(sessionID string) {
	s, ok := r.lookup(sessionID)
	if !ok {
		slog.Warn("prepare-stop for unknown session ignored", "session_id", sessionID)
		return
	}
	s.mu.Lock()
	w := s.worker
	if w == nil || s.state != StateStreaming {
		s.mu.Unlock()
		slog.Info("prepare-stop ignored, session not streaming", "session_id", sessionID, "state", s.state.String())
		return
	}
	s.state = StateDraining
	s.mu.Unlock()
	w.draining.Store(true)
	slog.Info("session draining", "session_id", sessionID)
}

// Stop sets the hard stop flag. Already-enqueued chunks get a bounded
// grace flush inside the worker before the stream is ended; leftovers
// are purged only after the worker has confirmed exit. Calling Stop on
// an idle session is a no-op, so it is idempotent.
func (r *Registry) Stop(sessionID string) {
	s, ok := r.lookup(sessionID)
	if !ok {
		slog.Warn("stop for unknown session ignored", "session_id", sessionID)
		return
	}
	w := s.currentWorker()
	if w == nil {
		slog.Info("stop ignored, no active worker", "session_id", sessionID)
		return
	}
	w.signalStop()
	go func() {
		// Purge is gated on the worker's own exit signal so it can
		// never race the worker's final queue reads. A restart may
		// have installed a replacement by then; its queue is live and
		// must not be touched.
		<-w.done
		s.mu.Lock()
		purged := 0
		if s.worker == nil {
			purged = s.purgeQueue()
		}
		s.mu.Unlock()
		if purged > 0 {
			slog.Info("purged undelivered chunks after stop", "session_id", sessionID, "purged", purged)
		}
	}()
	slog.Info("session stop requested", "session_id", sessionID)
}

// Disconnect tears the session down: hard stop, bounded join, queue
// purge, registry removal. Removal always follows confirmed worker
// termination. Safe to call for sessions that never started.
func (r *Registry) Disconnect(sessionID string) {
	s, ok := r.lookup(sessionID)
	if !ok {
		slog.Warn("disconnect for unknown session ignored", "session_id", sessionID)
		return
	}

	s.mu.Lock()
	s.state = StateClosed
	w := s.worker
	s.mu.Unlock()

	if w == nil {
		s.purgeQueue()
		r.remove(sessionID)
		slog.Info("session disconnected", "session_id", sessionID)
		return
	}

	w.signalStop()
	if r.joinWorker(w) {
		s.purgeQueue()
		r.remove(sessionID)
		slog.Info("session disconnected", "session_id", sessionID)
		return
	}

	slog.Error("worker did not exit within join timeout, resource leak",
		"session_id", sessionID, "join_timeout", r.cfg.WorkerJoinTimeout)
	go func() {
		<-w.done
		s.purgeQueue()
		r.remove(sessionID)
		slog.Info("leaked worker eventually exited, session removed", "session_id", sessionID)
	}()
}

func (r *Registry) remove(sessionID string) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}

func (r *Registry) joinWorker(w *worker) bool {
	select {
	case <-w.done:
		return true
	case <-time.After(r.cfg.WorkerJoinTimeout):
		return false
	}
}
