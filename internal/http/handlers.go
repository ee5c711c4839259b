// ABOUTME: HTTP handlers for resume service JSON-RPC endpoints
// ABOUTME: Reads a single request per POST and writes the JSON-RPC response

package http

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/harper/resumedeck/internal/errors"
	"github.com/harper/resumedeck/internal/jsonrpc"
	"github.com/harper/resumedeck/internal/logger"
)

var log = logger.Named("http")

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeStatusError(w, http.StatusRequestEntityTooLarge,
				errors.NewInvalidRequestError(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
			return
		}
		writeLLMError(w, errors.NewInvalidRequestError(fmt.Sprintf("failed to read body: %v", err)), nil)
		return
	}

	resp := s.handler.HandleMessage(r.Context(), data)
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, resp *jsonrpc.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status) // JSON-RPC errors still return 200
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Warn("Error encoding response: %v", err)
	}
}

func writeLLMError(w http.ResponseWriter, err *jsonrpc.Error, id *json.RawMessage) {
	resp := jsonrpc.NewErrorResponse(id, err)
	writeJSON(w, http.StatusOK, &resp)
}

func writeStatusError(w http.ResponseWriter, status int, err *jsonrpc.Error) {
	resp := jsonrpc.NewErrorResponse(nil, err)
	writeJSON(w, status, &resp)
}
