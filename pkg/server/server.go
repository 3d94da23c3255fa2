package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/folio/pkg/middleware"
	"github.com/vango-dev/folio/pkg/render"
)

// Server serves the documents and component streams of an Engine.
type Server struct {
	config *ServerConfig
	engine *render.Engine
	router chi.Router
	logger *slog.Logger

	httpServer *http.Server
}

// New creates a Server for engine. A nil config uses DefaultServerConfig.
func New(engine *render.Engine, config *ServerConfig) *Server {
	config = config.withDefaults()
	s := &Server{
		config: config,
		engine: engine,
		logger: config.Logger.With("component", "server"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(s.logger))
	if s.config.Metrics != nil {
		r.Use(middleware.NewMetrics(middleware.WithRegistry(s.config.Metrics)).Handler)
	}
	if s.config.Tracing {
		r.Use(middleware.OpenTelemetry())
	}
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		middleware.SetRoute(r.Context(), "/healthz")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	if s.config.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Metrics, promhttp.HandlerOpts{}))
	}
	if s.config.Assets != nil {
		prefix := strings.TrimSuffix(s.config.AssetsPrefix, "/")
		r.Mount(prefix, http.StripPrefix(prefix, s.config.Assets))
	}

	r.Get("/*", s.serve)
	r.Head("/*", s.serve)
	return r
}

// Mount attaches an extra handler, such as the dev reload socket.
// Static patterns win over the page catch-all.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Handle(pattern, h)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Engine returns the engine being served.
func (s *Server) Engine() *render.Engine {
	return s.engine
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
