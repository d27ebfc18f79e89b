package server

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/CKaviya23/bank-statement-parser/internal/history"
	"github.com/CKaviya23/bank-statement-parser/internal/pipeline"
)

// IDGenerator generates unique IDs for recorded runs.
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time.
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// BasicAuth holds basic authentication credentials.
type BasicAuth struct {
	Username string
	Password string
}

// Server exposes the statement pipeline and run history over HTTP.
type Server struct {
	pipeline  *pipeline.Pipeline
	store     history.Store
	storage   history.Storage
	basicAuth BasicAuth
	mux       *http.ServeMux
	idGen     IDGenerator
	clock     TimeSource
}

// New creates a new Server with default ID generator and time source.
func New(p *pipeline.Pipeline, store history.Store, storage history.Storage, basicAuth BasicAuth) *Server {
	return NewWithDeps(p, store, storage, basicAuth, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewWithDeps creates a new Server with custom dependencies for testing.
func NewWithDeps(p *pipeline.Pipeline, store history.Store, storage history.Storage, basicAuth BasicAuth, idGen IDGenerator, clock TimeSource) *Server {
	s := &Server{
		pipeline:  p,
		store:     store,
		storage:   storage,
		basicAuth: basicAuth,
		mux:       http.NewServeMux(),
		idGen:     idGen,
		clock:     clock,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/statements", s.requireAuth(s.handleProcessStatement))
	s.mux.HandleFunc("GET /api/runs/{id}/file", s.requireAuth(s.handleGetRunFile))
	s.mux.HandleFunc("GET /api/runs/{id}", s.requireAuth(s.handleGetRun))
	s.mux.HandleFunc("DELETE /api/runs/{id}", s.requireAuth(s.handleDeleteRun))
	s.mux.HandleFunc("GET /api/runs", s.requireAuth(s.handleListRuns))
}

// authenticate checks basic auth credentials.
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="Statement Parser"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
