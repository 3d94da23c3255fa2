package dev

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/folio/internal/assets"
	"github.com/vango-dev/folio/internal/config"
	ferrors "github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/internal/site"
	"github.com/vango-dev/folio/pkg/render"
	"github.com/vango-dev/folio/pkg/server"
)

// ServerOptions configures the development server.
type ServerOptions struct {
	// Config is the project configuration.
	Config *config.Config

	Logger *slog.Logger

	// OnRebuild is called after every rebuild attempt with its outcome.
	OnRebuild func(err error, took time.Duration)
}

// Server is the development server. It serves the site from disk and
// rebuilds it in process whenever a watched file changes.
type Server struct {
	config  *config.Config
	options ServerOptions
	logger  *slog.Logger

	engine *render.Engine
	bundle atomic.Pointer[assets.Bundle]
	reload *ReloadServer
	http   *server.Server
}

// NewServer builds the site once and prepares the server. A failing
// initial build is returned as is: there is no previous site to keep
// serving.
func NewServer(ctx context.Context, options ServerOptions) (*Server, error) {
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	s := &Server{
		config:  options.Config,
		options: options,
		logger:  options.Logger.With("component", "dev"),
		reload:  NewReloadServer(options.Logger),
	}

	bundle, st, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	engine, err := st.Engine(ctx)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.bundle.Store(bundle)

	s.http = server.New(engine, &server.ServerConfig{
		Address: s.config.DevAddress(),
		Public:  site.PublicFS(s.config),
		Assets:  http.HandlerFunc(s.serveAsset),
		Dev:     true,
		Logger:  options.Logger,
	})
	s.http.Mount(ReloadPath, s.reload)
	return s, nil
}

// Handler returns the HTTP handler of the dev server.
func (s *Server) Handler() http.Handler {
	return s.http.Handler()
}

// Reload returns the reload notifier.
func (s *Server) Reload() *ReloadServer {
	return s.reload
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	s.bundle.Load().ServeHTTP(w, r)
}

// build bundles the assets and loads the site from disk.
func (s *Server) build(ctx context.Context) (*assets.Bundle, *site.Site, error) {
	bundle, err := assets.Build(ctx, assets.Options{Source: site.AssetSource(s.config), SourceMap: true})
	if err != nil {
		return nil, nil, err
	}

	st, err := site.New(site.SourcesFor(s.config), site.Options{
		Meta:     site.MetaFor(s.config),
		Manifest: bundle.Manifest,
		Dev:      true,
		Logger:   s.options.Logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return bundle, st, nil
}

// Rebuild reloads the whole site and swaps it into the engine. The
// registry is rebuilt wholesale, never patched. On failure the previous
// site keeps being served and browsers are shown the error.
func (s *Server) Rebuild(ctx context.Context) error {
	start := time.Now()
	err := s.rebuild(ctx)
	took := time.Since(start)

	if s.options.OnRebuild != nil {
		s.options.OnRebuild(err, took)
	}
	if err != nil {
		msg := err.Error()
		if fe := ferrors.Lift(err); fe != nil {
			msg = fe.FormatCompact()
		}
		s.logger.Error("rebuild failed, serving previous site", "error", err)
		s.reload.NotifyError(msg)
		return err
	}

	s.logger.Info("rebuilt", "duration", took.Round(time.Millisecond), "routes", s.engine.Registry().Len())
	s.reload.NotifyReload()
	return nil
}

func (s *Server) rebuild(ctx context.Context) error {
	bundle, st, err := s.build(ctx)
	if err != nil {
		return err
	}
	reg, err := st.Registry(ctx)
	if err != nil {
		return err
	}
	notFound, err := st.NotFound()
	if err != nil {
		return err
	}

	s.bundle.Store(bundle)
	s.engine.SetRegistry(reg)
	s.engine.SetNotFound(notFound)
	return nil
}

// HandleChanges rebuilds for a batch of changes. Public files are
// served from disk as they are, so they only need a browser reload.
func (s *Server) HandleChanges(ctx context.Context, changes []Change) {
	rebuild := false
	for _, c := range changes {
		s.logger.Debug("changed", "path", c.Path, "type", c.Type.String())
		if c.Type != ChangePublic {
			rebuild = true
		}
	}
	if rebuild {
		s.Rebuild(ctx)
		return
	}
	s.reload.NotifyReload()
}

// Start watches the project and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	watcher, err := NewWatcher(WatcherConfig{
		Paths:    append(s.config.WatchPaths(), s.config.PublicPath()),
		Ignore:   s.config.Dev.Ignore,
		Debounce: s.config.DebounceInterval(),
		Classify: s.classify,
		Logger:   s.logger,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx, func(changes []Change) {
			s.HandleChanges(ctx, changes)
		})
	})
	g.Go(func() error {
		s.logger.Info("dev server running", "url", s.config.DevURL())
		err := s.http.Run(ctx)
		s.reload.Close()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	return g.Wait()
}

// classify marks everything under the public directory as a public
// change, whatever its extension.
func (s *Server) classify(path string) ChangeType {
	if within(path, s.config.PublicPath()) {
		return ChangePublic
	}
	return classifyChange(path)
}
