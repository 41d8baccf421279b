// Package api serves the sheet pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness probe, answers "ok"
//	POST /v1/layout   JSON layout settings in, computed geometry out
//	POST /v1/sheets   multipart upload of card images, PDF out
//
// Errors are JSON objects {"code": ..., "message": ...} using the codes of
// package errors. Input errors map to 400, layout errors to 422 and
// everything else to 500.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mab8192/tcgprint/pkg/observability"
	"github.com/mab8192/tcgprint/pkg/pipeline"
)

// Config tunes request handling.
type Config struct {
	// Workers is the page render concurrency per request.
	Workers int
	// MaxUploadBytes caps the size of a /v1/sheets request body.
	MaxUploadBytes int64
	// TempDir holds uploads while a request runs. Empty means os.TempDir.
	TempDir string
}

const (
	DefaultMaxUploadBytes = 64 << 20
	multipartMemory       = 8 << 20
)

// Server handles API requests with a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// New returns a Server. Zero config fields take their defaults.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Workers < 1 {
		cfg.Workers = pipeline.DefaultWorkers
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{runner: runner, logger: logger, cfg: cfg}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/sheets", s.handleSheets)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully and returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// instrument logs every request and reports it to the server hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d)
	})
}
