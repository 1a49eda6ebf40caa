// Package api serves the savearn HTTP API: per-user entry CRUD, stats, the
// caller's profile and a live change feed.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/theirongolddev/savearn/internal/ledger"

	"github.com/gorilla/mux"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr           string
	JWTSecret      string
	AllowAnonymous bool
	AnonymousUser  string
	EventsBuffer   int
	Backend        string // reported by /v1/status
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Addr            string    `json:"addr"`
	Backend         string    `json:"backend"`
	AllowAnonymous  bool      `json:"allow_anonymous"`
	Requests        int64     `json:"requests"`
	Failures        int64     `json:"failures"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Server provides the HTTP API over a ledger service.
type Server struct {
	cfg       Config
	ledger    *ledger.Service
	log       *slog.Logger
	events    *hub
	startedAt time.Time

	requests atomic.Int64
	failures atomic.Int64
}

// New returns a server with the provided config.
func New(cfg Config, svc *ledger.Service, log *slog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.AnonymousUser == "" {
		cfg.AnonymousUser = "temp-user-id"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		ledger:    svc,
		log:       log,
		events:    newHub(cfg.EventsBuffer),
		startedAt: time.Now(),
	}
}

// Handler returns the full middleware-wrapped router.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(s.authenticate)
	v1.HandleFunc("/entries", s.handleCreate).Methods(http.MethodPost)
	v1.HandleFunc("/entries", s.handleList).Methods(http.MethodGet)
	v1.HandleFunc("/entries/{id}", s.handleGet).Methods(http.MethodGet)
	v1.HandleFunc("/entries/{id}", s.handleUpdate).Methods(http.MethodPut)
	v1.HandleFunc("/entries/{id}", s.handleDelete).Methods(http.MethodDelete)
	v1.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	v1.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	v1.HandleFunc("/profile", s.handleProfile).Methods(http.MethodGet)
	v1.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	v1.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeValidation, "method not allowed")
	})

	return s.cors(s.logRequests(r))
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("api listening", "addr", s.cfg.Addr, "backend", s.cfg.Backend)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.events.closeAll()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("api http server: %w", err)
	}
}

func (s *Server) status() Status {
	events, subs := s.events.counts()
	return Status{
		StartedAt:       s.startedAt,
		Addr:            s.cfg.Addr,
		Backend:         s.cfg.Backend,
		AllowAnonymous:  s.cfg.AllowAnonymous,
		Requests:        s.requests.Load(),
		Failures:        s.failures.Load(),
		EventCount:      events,
		SubscriberCount: subs,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}
