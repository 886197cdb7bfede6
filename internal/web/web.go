package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"feedcal/internal/agenda"
	"feedcal/internal/caltime"
	"feedcal/internal/config"
	appLog "feedcal/internal/log"
)

// Agenda is the read side of agenda.Refresher.
type Agenda interface {
	Snapshot() agenda.Snapshot
	Entries(now time.Time) []agenda.Entry
}

// Server exposes the calendar-time helpers and the team agenda over HTTP.
type Server struct {
	cfg    *config.Config
	loc    *time.Location
	agenda Agenda
	clock  caltime.Clock
	router chi.Router
}

// NewServer constructs a Server. A nil clock means the system clock.
func NewServer(cfg *config.Config, ag Agenda, clock caltime.Clock) *Server {
	if clock == nil {
		clock = caltime.SystemClock{}
	}
	s := &Server{
		cfg:    cfg,
		loc:    cfg.Location(),
		agenda: ag,
		clock:  clock,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	// /health is always served without auth.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.basicAuthEnabled() {
			r.Use(middleware.BasicAuth("feedcal", map[string]string{
				s.cfg.BasicAuth.Username: s.cfg.BasicAuth.Password,
			}))
		}
		r.Route("/api", func(r chi.Router) {
			r.Get("/time-options", s.handleTimeOptions)
			r.Get("/date-info", s.handleDateInfo)
			r.Get("/elapsed", s.handleElapsed)
			r.Get("/compose", s.handleCompose)
			r.Get("/dday", s.handleDDay)
			r.Get("/schedules", s.handleSchedules)
		})
	})
	return r
}

// basicAuthEnabled treats an empty username or password as disabled.
func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// Run serves on cfg.Listen until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen, "basic_auth", s.basicAuthEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		appLog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
