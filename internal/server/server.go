// Package server provides the HTTP front end for the latticed binary.
//
// The server translates wire-level requests into operation descriptors and
// response descriptors back into JSON responses. Routing is shared with the
// Lambda gateway via handler.OpForRoute, so both transports expose the same
// surface.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jacentio/lattice/handler"
	"github.com/jacentio/lattice/store"
)

// maxBodyBytes bounds request bodies; entities are small records.
const maxBodyBytes = 1 << 20

// Server handles HTTP requests for lattice stores.
//
// Each request maps to one core operation:
//
//	POST   /{store}       create
//	GET    /{store}       list
//	GET    /{store}/{key} read
//	PUT    /{store}/{key} update
//	DELETE /{store}/{key} delete
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	core       *handler.Handler
	port       int
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a new HTTP [Server]. The server is not started until
// [Server.Start] is called.
func NewServer(core *handler.Handler, port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		core:   core,
		port:   port,
		logger: logger,
	}
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the server
// is listening. The server runs until ctx is cancelled, at which point it
// initiates a graceful shutdown with a 5-second timeout.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler: s.routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	s.logger.Info("server listening", "addr", addr)
	return nil
}

// routes builds the request multiplexer.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleOperation)
	return mux
}

// handleOperation maps one HTTP request onto a core operation.
func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	op, err := handler.OpForRoute(r.Method, r.URL.Path)
	if err != nil {
		s.writeResponse(w, r, handler.Response{Status: handler.StatusBadRequest}, 0)
		return
	}

	if op.Verb == handler.VerbCreate || op.Verb == handler.VerbUpdate {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			s.writeResponse(w, r, handler.Response{Status: handler.StatusBadRequest}, 0)
			return
		}
		var e store.Entity
		if err := json.Unmarshal(body, &e); err != nil {
			s.writeResponse(w, r, handler.Response{Status: handler.StatusBadRequest}, 0)
			return
		}
		op.Body = &e
	}

	resp, err := s.core.Handle(r.Context(), op)
	if err != nil {
		s.logger.Error("operation failed",
			"verb", op.Verb,
			"target", op.Target,
			"key", op.Key,
			"error", err,
		)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	code := handler.StatusCode(resp.Status)
	if op.Verb == handler.VerbCreate && resp.Status == handler.StatusOK {
		code = http.StatusCreated
	}
	s.writeResponse(w, r, resp, code)
}

// writeResponse renders a response descriptor as JSON. A zero code falls
// back to the conventional mapping for the status.
func (s *Server) writeResponse(w http.ResponseWriter, r *http.Request, resp handler.Response, code int) {
	if code == 0 {
		code = handler.StatusCode(resp.Status)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to write response",
			"path", r.URL.Path,
			"error", err,
		)
	}
}
