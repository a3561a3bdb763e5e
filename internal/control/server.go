// Package control exposes a running loop's pacing controls, lifecycle
// requests and latest frame stats over HTTP.
package control

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/comalice/fixedloop"
	"github.com/comalice/fixedloop/internal/logging"
)

// Loop is the part of *fixedloop.Loop the server drives. Every method is
// safe to call from a goroutine other than the loop's own.
type Loop interface {
	GetTargetFPS() uint32
	GetCappedFPS() bool
	SetTargetFPS(fps uint32)
	SetCappedFPS(capped bool)
	RequestShutDown()
	RequestRestart()
	State() fixedloop.LoopState
	TotalFrames() uint64
}

// StatsSource returns the most recent frame, or false before the first one.
type StatsSource interface {
	Load() (fixedloop.FrameStats, bool)
}

// Server is the HTTP control surface for one loop.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	loop      Loop
	stats     StatsSource
	startTime time.Time
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithStats sets the source for GET /stats/latest.
func WithStats(src StatsSource) Option {
	return func(s *Server) {
		s.stats = src
	}
}

// New creates a Server with all routes registered.
func New(loop Loop, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logging.Component(logger, "control"),
		loop:      loop,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/pacing", s.handleGetPacing)
	r.Put("/pacing", s.handlePutPacing)
	r.Post("/shutdown", s.handleShutdown)
	r.Post("/restart", s.handleRestart)
	r.Get("/stats/latest", s.handleLatestStats)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("control listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
