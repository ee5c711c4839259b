// ABOUTME: WebSocket server carrying JSON-RPC requests for the resume service
// ABOUTME: Requests on one connection are handled concurrently; writes are serialized

package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/harper/resumedeck/internal/jsonrpc"
	"github.com/harper/resumedeck/internal/logger"
)

// Handler answers one raw JSON-RPC message; nil means no response.
type Handler interface {
	HandleMessage(ctx context.Context, data []byte) *jsonrpc.Response
}

var log = logger.Named("ws")

var upgrader = websocket.Upgrader{
	// the terminal client sends no Origin header
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Server struct {
	handler     Handler
	maxMessage  int64
	mu          sync.Mutex
	connections int
}

// NewServer creates a websocket endpoint. maxMessage bounds a single
// incoming frame; zero leaves gorilla's default (no limit).
func NewServer(handler Handler, maxMessage int64) *Server {
	return &Server{handler: handler, maxMessage: maxMessage}
}

// Connections reports how many clients are attached.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections
}

func (s *Server) track(delta int) {
	s.mu.Lock()
	s.connections += delta
	s.mu.Unlock()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed: %v", err)
		return
	}

	s.track(1)
	defer s.track(-1)
	s.handleConnection(r.Context(), conn)
}

type connWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *connWriter) write(resp *jsonrpc.Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		log.Error("failed to encode response: %v", err)
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Debug("websocket write error: %v", err)
	}
}

func (s *Server) handleConnection(parent context.Context, conn *websocket.Conn) {
	defer conn.Close()
	if s.maxMessage > 0 {
		conn.SetReadLimit(s.maxMessage)
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	writer := &connWriter{conn: conn}
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("websocket read error: %v", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		wg.Add(1)
		go func(msg []byte) {
			defer wg.Done()
			if resp := s.handler.HandleMessage(ctx, msg); resp != nil {
				writer.write(resp)
			}
		}(message)
	}
}
