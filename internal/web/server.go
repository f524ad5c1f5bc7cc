// Package web exposes the toast engine over HTTP and pushes snapshots to
// websocket clients.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/hay-kot/toasty/internal/core/logging"
	"github.com/hay-kot/toasty/internal/toaster"
)

const shutdownTimeout = 5 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and hub logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithClientHooks is called when websocket clients connect and disconnect.
func WithClientHooks(onConnect, onDisconnect func()) Option {
	return func(s *Server) {
		s.hubOpts = append(s.hubOpts, withClientHooks(onConnect, onDisconnect))
	}
}

// Server serves the toast API.
type Server struct {
	engine  toaster.Engine
	logger  zerolog.Logger
	metrics http.Handler
	hubOpts []hubOption
	hub     *Hub
}

// New creates a Server over engine and subscribes its websocket hub to
// engine snapshots.
func New(engine toaster.Engine, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		logger: logging.Component("web"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Hook(logging.ContextHook{})
	s.hub = newHub(engine, s.logger, s.hubOpts...)
	return s
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/toasts", func(r chi.Router) {
			r.Get("/", s.listToasts)
			r.Post("/", s.createToast)
			r.Delete("/{id}", s.dismissToast)
			r.Post("/{id}/pause", s.pauseToast)
			r.Post("/{id}/resume", s.resumeToast)
		})
		r.Delete("/groups/{position}", s.clearGroup)
	})

	r.Get("/ws", s.hub.ServeWS)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.hub.Close()
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down")
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			l.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
