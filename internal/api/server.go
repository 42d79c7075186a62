// Package api serves the study tracker over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/balkashynov/studytrack/internal/models"
)

// Store is the storage the handlers need. *db.Store satisfies it.
type Store interface {
	Ping(ctx context.Context) error

	CreateProject(ctx context.Context, name string) (*models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, id int64, name string) (int64, error)
	DeleteProject(ctx context.Context, id int64) (int64, error)

	ClockIn(ctx context.Context, projectID int64, description *string) (*models.StudySession, error)
	ClockOut(ctx context.Context, id int64) (int64, error)
	AddManualSession(ctx context.Context, in models.ManualSession) (*models.StudySession, error)
	GetSession(ctx context.Context, id int64) (*models.StudySession, error)
	ListSessions(ctx context.Context) ([]models.StudySession, error)
	ListSessionsForProject(ctx context.Context, projectID int64) ([]models.StudySession, error)
	UpdateSession(ctx context.Context, id int64, in models.ManualSession) (int64, error)
	DeleteSession(ctx context.Context, id int64) (int64, error)
	ActiveSession(ctx context.Context) (*models.StudySession, error)
}

const defaultShutdownTimeout = 10 * time.Second

// Options configures the HTTP listener.
type Options struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server routes /api requests to the store.
type Server struct {
	store   Store
	logger  *slog.Logger
	mux     *http.ServeMux
	handler http.Handler
}

// New creates a Server. A nil logger uses slog.Default.
func New(store Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:  store,
		logger: logger,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	s.handler = requestLogger(logger)(cors(s.mux))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// registerRoutes registers all API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.health)

	// Project routes
	s.mux.HandleFunc("POST /api/projects", s.createProject)
	s.mux.HandleFunc("GET /api/projects", s.listProjects)
	s.mux.HandleFunc("GET /api/projects/{id}", s.getProject)
	s.mux.HandleFunc("PUT /api/projects/{id}", s.updateProject)
	s.mux.HandleFunc("DELETE /api/projects/{id}", s.deleteProject)

	// Session routes
	s.mux.HandleFunc("POST /api/sessions/start/{project_id}", s.startSession)
	s.mux.HandleFunc("POST /api/sessions/clockout/{id}", s.clockOut)
	s.mux.HandleFunc("POST /api/sessions/manual", s.addManualSession)
	s.mux.HandleFunc("GET /api/sessions", s.listSessions)
	s.mux.HandleFunc("GET /api/sessions/project/{project_id}", s.listSessionsForProject)
	s.mux.HandleFunc("GET /api/sessions/active", s.activeSession)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.getSession)
	s.mux.HandleFunc("PUT /api/sessions/{id}", s.updateSession)
	s.mux.HandleFunc("DELETE /api/sessions/{id}", s.deleteSession)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, opts Options) error {
	ln, err := net.Listen("tcp", opts.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", opts.Address, err)
	}
	return s.Serve(ctx, ln, opts)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, opts Options) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// health handles GET /healthz.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
