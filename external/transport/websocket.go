package transport

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const emitWriteTimeout = 5 * time.Second

// Inbound control events from the recorder frontend.
const (
	eventAudioChunk         = "audio_chunk"
	eventStartTranscription = "start_transcription"
	eventPrepareStop        = "prepare_stop"
	eventStopTranscription  = "stop_transcription"
	eventConnected          = "connected"
)

// SessionHandler is the session layer the socket feeds. Implemented by
// the stream registry.
type SessionHandler interface {
	Connect() string
	Disconnect(sessionID string)
	HandleAudioChunk(sessionID string, chunk []byte)
	Start(sessionID string) error
	PrepareStop(sessionID string)
	Stop(sessionID string)
}

type inboundMessage struct {
	Event string `json:"event"`
	Data  string `json:"data,omitempty"`
}

type outboundMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

type clientConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *clientConn) write(ctx context.Context, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Write(ctx, websocket.MessageText, payload)
}

// WebSocketServer accepts recorder connections, translates socket
// events into session-layer calls, and pushes transcript events back.
// It implements transport.Emitter keyed by session id.
type WebSocketServer struct {
	mu      sync.Mutex
	conns   map[string]*clientConn
	handler SessionHandler
}

func NewWebSocketServer() *WebSocketServer {
	return &WebSocketServer{
		conns: make(map[string]*clientConn),
	}
}

// AttachHandler wires the session layer in after construction; the
// registry and the server reference each other, so one side has to be
// attached late.
func (s *WebSocketServer) AttachHandler(h SessionHandler) {
	s.handler = h
}

func (s *WebSocketServer) Emit(clientID, event string, payload any) error {
	s.mu.Lock()
	cc, ok := s.conns[clientID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("no connection for client %s", clientID)
	}
	body, err := json.Marshal(outboundMessage{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), emitWriteTimeout)
	defer cancel()
	return cc.write(ctx, body)
}

func (s *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.handler == nil {
		http.Error(w, "session layer not ready", http.StatusServiceUnavailable)
		return
	}
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // browser clients connect cross-origin in development
	})
	if err != nil {
		slog.Warn("websocket accept failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	sessionID := s.handler.Connect()
	cc := &clientConn{conn: conn}
	s.mu.Lock()
	s.conns[sessionID] = cc
	s.mu.Unlock()
	slog.Info("websocket client connected", "session_id", sessionID, "remote", r.RemoteAddr)

	if err := s.Emit(sessionID, eventConnected, map[string]string{"sessionId": sessionID}); err != nil {
		slog.Warn("failed to send connected event", "error", err, "session_id", sessionID)
	}

	s.readLoop(r.Context(), sessionID, conn)

	s.mu.Lock()
	delete(s.conns, sessionID)
	s.mu.Unlock()
	s.handler.Disconnect(sessionID)
	_ = conn.Close(websocket.StatusNormalClosure, "session closed")
	slog.Info("websocket client disconnected", "session_id", sessionID)
}

// readLoop pumps inbound frames until the connection dies. It never
// blocks on the session layer: chunk handoff is a non-blocking enqueue.
func (s *WebSocketServer) readLoop(ctx context.Context, sessionID string, conn *websocket.Conn) {
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				return
			}
			slog.Warn("websocket read failed", "error", err, "session_id", sessionID)
			return
		}

		if msgType == websocket.MessageBinary {
			s.handler.HandleAudioChunk(sessionID, data)
			continue
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("undecodable websocket message dropped", "error", err, "session_id", sessionID)
			continue
		}
		s.dispatch(sessionID, msg)
	}
}

func (s *WebSocketServer) dispatch(sessionID string, msg inboundMessage) {
	switch msg.Event {
	case eventAudioChunk:
		chunk, err := base64.StdEncoding.DecodeString(msg.Data)
		if err != nil {
			slog.Warn("malformed audio chunk dropped", "error", err, "session_id", sessionID)
			return
		}
		s.handler.HandleAudioChunk(sessionID, chunk)
	case eventStartTranscription:
		if err := s.handler.Start(sessionID); err != nil {
			slog.Error("failed to start transcription", "error", err, "session_id", sessionID)
		}
	case eventPrepareStop:
		s.handler.PrepareStop(sessionID)
	case eventStopTranscription:
		s.handler.Stop(sessionID)
	default:
		slog.Warn("unknown websocket event ignored", "event", msg.Event, "session_id", sessionID)
	}
}
