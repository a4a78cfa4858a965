// Package server exposes a flow.Store over HTTP.
//
// One Server owns one store. Every handler takes the server mutex for the
// duration of its store access, so the store still sees a single logical
// actor. Rendering (paths, previews) happens on a snapshot outside the lock.
//
// Errors are written as {"code": "...", "message": "..."} with the status
// chosen from the error code: lookups map to 404, conflicts to 409 and
// invalid input to 400.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowcanvas/pkg/flow"
	"github.com/matzehuels/flowcanvas/pkg/pipeline"
	"github.com/matzehuels/flowcanvas/pkg/render/curve"
)

// Server serves the graph API.
type Server struct {
	mu     sync.Mutex
	store  *flow.Store
	runner *pipeline.Runner
	curves curve.Options
	cors   string
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRunner sets the preview runner. Without one, previews are rendered
// uncached.
func WithRunner(r *pipeline.Runner) Option { return func(s *Server) { s.runner = r } }

// WithCurves sets the curvature used for paths and previews.
func WithCurves(o curve.Options) Option { return func(s *Server) { s.curves = o } }

// WithCORSOrigin sets Access-Control-Allow-Origin. Empty disables CORS
// headers.
func WithCORSOrigin(origin string) Option { return func(s *Server) { s.cors = origin } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// New builds a server over store.
func New(store *flow.Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		curves: curve.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)
	if s.cors != "" {
		r.Use(s.corsHeaders)
	}

	r.Get("/health", s.handleHealth)

	r.Get("/graph", s.handleGetGraph)
	r.Put("/graph", s.handlePutGraph)

	r.Route("/modules", func(r chi.Router) {
		r.Get("/", s.handleListModules)
		r.Post("/", s.handleCreateModule)
		r.Put("/active", s.handleSwitchModule)
		r.Delete("/{name}", s.handleRemoveModule)
		r.Get("/{name}/paths", s.handlePaths)
		r.Get("/{name}/preview", s.handlePreview)
	})

	r.Route("/nodes", func(r chi.Router) {
		r.Post("/", s.handleAddNode)
		r.Get("/{id}", s.handleGetNode)
		r.Delete("/{id}", s.handleRemoveNode)
		r.Put("/{id}/data", s.handleUpdateData)
		r.Put("/{id}/position", s.handleMoveNode)
		r.Post("/{id}/ports/{side}", s.handleAddPort)
		r.Delete("/{id}/ports/{side}/{port}", s.handleRemovePort)
	})

	r.Route("/connections", func(r chi.Router) {
		r.Post("/", s.handleAddConnection)
		r.Delete("/", s.handleRemoveConnection)
		r.Post("/points", s.handleAddPoint)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// locked runs fn with the store mutex held.
func (s *Server) locked(fn func(*flow.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}
