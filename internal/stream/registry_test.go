package stream

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hireloop/interviewai/internal/config"
	"github.com/hireloop/interviewai/internal/transcriber"
	"github.com/hireloop/interviewai/internal/transport"
)

type fakeWriter struct {
	mu       sync.Mutex
	chunks   [][]byte
	closed   bool
	writeErr error
	onClose  func()
}

func (f *fakeWriter) Write(chunk []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	f.chunks = append(f.chunks, buf)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	alreadyClosed := f.closed
	f.closed = true
	f.mu.Unlock()
	if !alreadyClosed && f.onClose != nil {
		f.onClose()
	}
	return nil
}

func (f *fakeWriter) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks)
}

func (f *fakeWriter) chunkAt(i int) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chunks[i]
}

func (f *fakeWriter) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeTranscriber struct {
	mu            sync.Mutex
	writers       []*fakeWriter
	receivers     []transcriber.ResultReceiver
	startErr      error
	activeStreams atomic.Int32
	maxActive     atomic.Int32
}

func (f *fakeTranscriber) StartStreaming(_ context.Context, _, _ string, receiver transcriber.ResultReceiver) (transcriber.StreamWriter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	active := f.activeStreams.Add(1)
	for {
		max := f.maxActive.Load()
		if active <= max || f.maxActive.CompareAndSwap(max, active) {
			break
		}
	}
	w := &fakeWriter{onClose: func() { f.activeStreams.Add(-1) }}
	f.writers = append(f.writers, w)
	f.receivers = append(f.receivers, receiver)
	return w, nil
}

func (f *fakeTranscriber) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writers)
}

func (f *fakeTranscriber) writerAt(i int) *fakeWriter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writers[i]
}

func (f *fakeTranscriber) receiverAt(i int) transcriber.ResultReceiver {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receivers[i]
}

type emittedEvent struct {
	clientID string
	event    string
	payload  any
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (f *fakeEmitter) Emit(clientID, event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emittedEvent{clientID: clientID, event: event, payload: payload})
	return nil
}

func (f *fakeEmitter) eventsNamed(name string) []emittedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []emittedEvent
	for _, e := range f.events {
		if e.event == name {
			out = append(out, e)
		}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                       "test",
		DefaultTranscribeLanguage: "en-US",
		AudioSampleRateHertz:      16000,
		MinAudioChunkBytes:        500,
		AudioQueueCapacity:        16,
		QueuePollTimeout:          50 * time.Millisecond,
		DrainPollTimeout:          10 * time.Millisecond,
		WorkerJoinTimeout:         time.Second,
		DrainGracePeriod:          100 * time.Millisecond,
	}
}

func newTestRegistry(stt *fakeTranscriber, emitter *fakeEmitter) *Registry {
	return NewRegistry(testConfig(), stt, emitter)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

func makeChunk(size int, marker byte) []byte {
	chunk := bytes.Repeat([]byte{marker}, size)
	return chunk
}

func TestStartForwardsChunksInOrderAndStops(t *testing.T) {
	stt := &fakeTranscriber{}
	emitter := &fakeEmitter{}
	r := newTestRegistry(stt, emitter)

	id := r.Connect()
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		r.HandleAudioChunk(id, makeChunk(1000, byte(i)))
	}

	waitFor(t, time.Second, func() bool {
		return stt.startCount() == 1 && stt.writerAt(0).writeCount() == 3
	}, "3 chunks forwarded")

	writer := stt.writerAt(0)
	for i := 0; i < 3; i++ {
		if writer.chunkAt(i)[0] != byte(i) {
			t.Fatalf("chunk %d out of order, got marker %d", i, writer.chunkAt(i)[0])
		}
		if len(writer.chunkAt(i)) != 1000 {
			t.Fatalf("chunk %d re-split, got %d bytes", i, len(writer.chunkAt(i)))
		}
	}

	r.Stop(id)
	waitFor(t, time.Second, func() bool {
		state, ok := r.SessionState(id)
		return ok && state == StateIdle && writer.isClosed()
	}, "worker terminated after stop")

	r.Disconnect(id)
	if r.SessionCount() != 0 {
		t.Fatalf("expected empty registry, got %d sessions", r.SessionCount())
	}
}

func TestChunkQueuedBeforeStartIsForwarded(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	r.HandleAudioChunk(id, makeChunk(1000, 0x7f))
	if stt.startCount() != 0 {
		t.Fatal("no stream should exist before start")
	}

	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		return stt.startCount() == 1 && stt.writerAt(0).writeCount() == 1
	}, "pre-start chunk forwarded")
	if stt.writerAt(0).chunkAt(0)[0] != 0x7f {
		t.Fatal("forwarded chunk does not match enqueued chunk")
	}
}

func TestImmediateDisconnectWithoutChunks(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 1 }, "worker started")

	r.Disconnect(id)
	if r.SessionCount() != 0 {
		t.Fatalf("expected session removed, got %d sessions", r.SessionCount())
	}
	if got := stt.writerAt(0).writeCount(); got != 0 {
		t.Fatalf("expected zero forwarded chunks, got %d", got)
	}
	if !stt.writerAt(0).isClosed() {
		t.Fatal("expected stream closed on disconnect")
	}
}

func TestPrepareStopDrainsToIdle(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 1 }, "worker started")

	r.PrepareStop(id)
	if state, _ := r.SessionState(id); state != StateDraining {
		t.Fatalf("expected draining state, got %s", state)
	}

	// No stop is issued; the short drain poll timeout alone must wind
	// the worker down once the queue stays empty.
	waitFor(t, time.Second, func() bool {
		state, ok := r.SessionState(id)
		return ok && state == StateIdle
	}, "drained session returned to idle")
	if !stt.writerAt(0).isClosed() {
		t.Fatal("expected stream closed after drain")
	}
}

func TestVendorErrorLeavesSessionRestartable(t *testing.T) {
	stt := &fakeTranscriber{}
	emitter := &fakeEmitter{}
	r := newTestRegistry(stt, emitter)

	id := r.Connect()
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 1 }, "worker started")

	stt.receiverAt(0).OnError(errors.New("stream broke"))
	waitFor(t, time.Second, func() bool {
		state, ok := r.SessionState(id)
		return ok && state == StateIdle
	}, "session idle after vendor error")

	if got := emitter.eventsNamed(transport.EventTranscriptionError); len(got) == 0 {
		t.Fatal("expected a transcription_error event")
	}

	if err := r.Start(id); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 2 }, "fresh worker started")
	if max := stt.maxActive.Load(); max > 1 {
		t.Fatalf("expected at most one concurrent stream, observed %d", max)
	}
}

func TestStartIsIdempotentRestartWithSingleWorker(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	for i := 0; i < 3; i++ {
		if err := r.Start(id); err != nil {
			t.Fatalf("start %d failed: %v", i, err)
		}
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 3 }, "each start created a fresh stream")
	if max := stt.maxActive.Load(); max > 1 {
		t.Fatalf("two workers ran concurrently, max active %d", max)
	}

	r.Disconnect(id)
	if r.SessionCount() != 0 {
		t.Fatal("expected session removed after disconnect")
	}
}

func TestRestartClearsStaleQueue(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 1 }, "worker started")
	r.Stop(id)
	waitFor(t, time.Second, func() bool {
		state, _ := r.SessionState(id)
		return state == StateIdle
	}, "worker stopped")

	// Enqueue while idle, then restart: this audio predates the new
	// run and must not leak into it.
	r.HandleAudioChunk(id, makeChunk(1000, 0x01))
	if err := r.Start(id); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 2 }, "second stream started")

	// FIFO order makes the check deterministic: a leaked stale chunk
	// would have to arrive before this fresh one.
	r.HandleAudioChunk(id, makeChunk(1000, 0x02))
	waitFor(t, time.Second, func() bool { return stt.writerAt(1).writeCount() >= 1 }, "fresh chunk forwarded")
	writer := stt.writerAt(1)
	if got := writer.writeCount(); got != 1 {
		t.Fatalf("stale chunk leaked into fresh stream, %d writes", got)
	}
	if writer.chunkAt(0)[0] != 0x02 {
		t.Fatalf("first write on fresh stream has marker %d, want fresh chunk", writer.chunkAt(0)[0])
	}
}

func TestStopThenImmediateRestartKeepsFreshAudio(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 1 }, "worker started")

	// Restart right on the heels of the stop; the stop's deferred
	// purge must not swallow audio that belongs to the new run.
	r.Stop(id)
	if err := r.Start(id); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 2 }, "second stream started")

	r.HandleAudioChunk(id, makeChunk(1000, 0x0a))
	waitFor(t, time.Second, func() bool { return stt.writerAt(1).writeCount() == 1 }, "fresh chunk survived the post-stop purge")
	if stt.writerAt(1).chunkAt(0)[0] != 0x0a {
		t.Fatalf("wrong chunk forwarded after restart: marker %d", stt.writerAt(1).chunkAt(0)[0])
	}
}

func TestStopIsIdempotent(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 1 }, "worker started")

	r.Stop(id)
	r.Stop(id)
	waitFor(t, time.Second, func() bool {
		state, ok := r.SessionState(id)
		return ok && state == StateIdle
	}, "session idle after double stop")
}

func TestMinChunkSizeBoundary(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 1 }, "worker started")

	r.HandleAudioChunk(id, makeChunk(499, 0x01))
	r.HandleAudioChunk(id, makeChunk(500, 0x02))

	waitFor(t, time.Second, func() bool { return stt.writerAt(0).writeCount() == 1 }, "exactly one chunk forwarded")
	writer := stt.writerAt(0)
	if writer.chunkAt(0)[0] != 0x02 || len(writer.chunkAt(0)) != 500 {
		t.Fatalf("wrong chunk forwarded: marker %d, %d bytes", writer.chunkAt(0)[0], len(writer.chunkAt(0)))
	}
}

func TestEventsForUnknownSessionAreIgnored(t *testing.T) {
	r := newTestRegistry(&fakeTranscriber{}, &fakeEmitter{})

	r.HandleAudioChunk("no-such-session", makeChunk(1000, 0x01))
	r.PrepareStop("no-such-session")
	r.Stop("no-such-session")
	r.Disconnect("no-such-session")
	if err := r.Start("no-such-session"); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestChunkAfterDisconnectIsDropped(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	r.Disconnect(id)
	r.HandleAudioChunk(id, makeChunk(1000, 0x01))
	if stt.startCount() != 0 {
		t.Fatal("no stream should ever start for a closed session")
	}
}

func TestResultsAreRelayedToClient(t *testing.T) {
	stt := &fakeTranscriber{}
	emitter := &fakeEmitter{}
	r := newTestRegistry(stt, emitter)

	id := r.Connect()
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	waitFor(t, time.Second, func() bool { return stt.startCount() == 1 }, "worker started")

	stt.receiverAt(0).OnResult("hello wor", false)
	stt.receiverAt(0).OnResult("hello world", true)

	updates := emitter.eventsNamed(transport.EventTranscriptUpdate)
	if len(updates) != 2 {
		t.Fatalf("expected 2 transcript updates, got %d", len(updates))
	}
	first, ok := updates[0].payload.(transport.TranscriptUpdate)
	if !ok {
		t.Fatalf("unexpected payload type %T", updates[0].payload)
	}
	if first.Transcript != "hello wor" || first.IsFinal {
		t.Fatalf("unexpected interim payload: %+v", first)
	}
	last := updates[1].payload.(transport.TranscriptUpdate)
	if last.Transcript != "hello world" || !last.IsFinal {
		t.Fatalf("unexpected final payload: %+v", last)
	}
	if updates[0].clientID != id {
		t.Fatalf("update routed to wrong client: %s", updates[0].clientID)
	}
}

func TestStopFlushesAlreadyQueuedChunks(t *testing.T) {
	stt := &fakeTranscriber{}
	r := newTestRegistry(stt, &fakeEmitter{})

	id := r.Connect()
	r.HandleAudioChunk(id, makeChunk(1000, 0x01))
	r.HandleAudioChunk(id, makeChunk(1000, 0x02))
	if err := r.Start(id); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	r.Stop(id)

	waitFor(t, time.Second, func() bool {
		state, _ := r.SessionState(id)
		return state == StateIdle
	}, "worker stopped")
	waitFor(t, time.Second, func() bool {
		return stt.startCount() == 1 && stt.writerAt(0).writeCount() == 2
	}, "trailing chunks flushed before stream close")
}
