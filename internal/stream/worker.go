package stream

import (
	"context"
	"log/slog"
	"time"

	"github.com/hireloop/interviewai/internal/transcriber"
	"github.com/hireloop/interviewai/internal/transport"
)

// runWorker drives one session's vendor stream: it pulls chunks from
// the queue with a timeout and forwards each as a discrete unit, in
// enqueue order. A poll timeout while draining means the client is done
// talking and the stream is ended gracefully; while streaming it just
// means no audio yet.
func (r *Registry) runWorker(s *Session, w *worker) {
	defer func() {
		s.mu.Lock()
		if s.worker == w {
			s.worker = nil
			if s.state != StateClosed {
				s.state = StateIdle
			}
		}
		s.mu.Unlock()
		close(w.done)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	receiver := &resultReceiver{registry: r, session: s, worker: w}
	writer, err := r.transcriber.StartStreaming(ctx, s.id, r.cfg.DefaultTranscribeLanguage, receiver)
	if err != nil {
		slog.Error("failed to start recognition stream", "error", err, "session_id", s.id)
		r.emitError(s.id, "speech recognition unavailable")
		return
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Warn("failed to close recognition stream", "error", err, "session_id", s.id)
		}
	}()

	timer := time.NewTimer(r.pollTimeout(w))
	defer timer.Stop()

	for {
		select {
		case <-w.stop:
			if !w.failed.Load() {
				r.flushRemaining(s, w, writer)
			}
			slog.Info("worker stopping", "session_id", s.id)
			return

		case chunk := <-s.queue:
			if err := writer.Write(chunk); err != nil {
				slog.Error("failed to forward audio chunk", "error", err, "session_id", s.id, "chunk_bytes", len(chunk))
				r.emitError(s.id, "transcription stream failed")
				return
			}

		case <-timer.C:
			if w.draining.Load() {
				slog.Info("queue drained, ending stream", "session_id", s.id)
				return
			}
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(r.pollTimeout(w))
	}
}

func (r *Registry) pollTimeout(w *worker) time.Duration {
	if w.draining.Load() {
		return r.cfg.DrainPollTimeout
	}
	return r.cfg.QueuePollTimeout
}

// flushRemaining forwards chunks that were already enqueued when the
// hard stop arrived. Speech endpoints often need the trailing audio to
// finalize a transcript, so the flush is bounded by the grace period
// rather than skipped.
func (r *Registry) flushRemaining(s *Session, w *worker, writer transcriber.StreamWriter) {
	deadline := time.Now().Add(r.cfg.DrainGracePeriod)
	for time.Now().Before(deadline) {
		select {
		case chunk := <-s.queue:
			if err := writer.Write(chunk); err != nil {
				slog.Warn("failed to flush trailing chunk", "error", err, "session_id", s.id)
				return
			}
		default:
			return
		}
	}
	slog.Warn("drain grace period elapsed with chunks still queued", "session_id", s.id, "grace_period", r.cfg.DrainGracePeriod)
}

func (r *Registry) emitError(sessionID, message string) {
	if err := r.emitter.Emit(sessionID, transport.EventTranscriptionError, transport.TranscriptionError{Message: message}); err != nil {
		slog.Warn("failed to emit transcription error", "error", err, "session_id", sessionID)
	}
}

type resultReceiver struct {
	registry *Registry
	session  *Session
	worker   *worker
}

func (rr *resultReceiver) OnResult(transcript string, isFinal bool) {
	err := rr.registry.emitter.Emit(rr.session.id, transport.EventTranscriptUpdate, transport.TranscriptUpdate{
		Transcript: transcript,
		IsFinal:    isFinal,
	})
	if err != nil {
		slog.Warn("failed to emit transcript update", "error", err, "session_id", rr.session.id, "is_final", isFinal)
	}
}

// OnError marks the worker failed and stops it so the session returns
// to a restartable idle state instead of hanging in streaming forever.
func (rr *resultReceiver) OnError(err error) {
	slog.Error("recognition stream error", "error", err, "session_id", rr.session.id)
	rr.registry.emitError(rr.session.id, "transcription stream failed")
	rr.worker.failed.Store(true)
	rr.worker.signalStop()
}
