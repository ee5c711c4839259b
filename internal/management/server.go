// ABOUTME: Management API for health, redacted config and resume file downloads
// ABOUTME: FileURLs handed to clients point at the /files endpoint of this server

package management

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/harper/resumedeck/internal/config"
	"github.com/harper/resumedeck/internal/logger"
	"github.com/harper/resumedeck/internal/protocol"
	"github.com/harper/resumedeck/internal/resumes"
)

// Store is the database view the health check needs.
type Store interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (users, resumes int, err error)
}

// FileOpener serves stored resume files.
type FileOpener interface {
	OpenFile(ctx context.Context, resumeID string) (io.ReadCloser, resumes.Resume, error)
}

var log = logger.Named("management")

type Server struct {
	config      *config.Config
	store       Store
	files       FileOpener
	connections func() int
	mux         *http.ServeMux
}

// NewServer wires the management routes. connections may be nil.
func NewServer(cfg *config.Config, store Store, files FileOpener, connections func() int) *Server {
	s := &Server{
		config:      cfg,
		store:       store,
		files:       files,
		connections: connections,
		mux:         http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/config", s.handleConfig)
	s.mux.HandleFunc("/api/methods", s.handleMethods)
	s.mux.HandleFunc("GET /files/{id}", s.handleFile)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to encode response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":  "healthy",
		"storage": s.config.Storage.Type,
	}
	if s.connections != nil {
		health["websocket_clients"] = s.connections()
	}

	status := http.StatusOK
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			health["status"] = "unhealthy"
			health["error"] = err.Error()
			status = http.StatusServiceUnavailable
		} else if users, resumes, err := s.store.Stats(r.Context()); err == nil {
			health["users"] = users
			health["resumes"] = resumes
		}
	}

	writeJSON(w, status, health)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.config.Redacted())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"methods": protocol.Methods})
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rc, resume, err := s.files.OpenFile(r.Context(), id)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			http.Error(w, "resume not found", http.StatusNotFound)
			return
		}
		log.Error("failed to open file for resume %s: %v", id, err)
		http.Error(w, "failed to open file", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	if resume.MimeType != "" {
		w.Header().Set("Content-Type", resume.MimeType)
	}
	if resume.SizeBytes > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", resume.SizeBytes))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", resume.FileName))
	if _, err := io.Copy(w, rc); err != nil {
		log.Debug("file download for %s interrupted: %v", id, err)
	}
}
