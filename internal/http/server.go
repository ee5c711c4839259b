// ABOUTME: HTTP server for JSON-RPC requests to the resume service
// ABOUTME: Routes POST /rpc to the dispatcher

package http

import (
	"context"
	"net/http"

	"github.com/harper/resumedeck/internal/jsonrpc"
)

// Handler answers one raw JSON-RPC message; nil means no response.
type Handler interface {
	HandleMessage(ctx context.Context, data []byte) *jsonrpc.Response
}

type Server struct {
	handler Handler
	maxBody int64
	mux     *http.ServeMux
}

// NewServer creates the HTTP endpoint. maxBody caps the request body; zero means unlimited.
func NewServer(handler Handler, maxBody int64) *Server {
	s := &Server{
		handler: handler,
		maxBody: maxBody,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("/rpc", s.handleRPC)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
