package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/folio/internal/assets"
	"github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/internal/site"
	"github.com/vango-dev/folio/pkg/server"
)

func serveCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Long: `Serve the site, rendering each request on demand.

Requests to a page's path get its HTML document; requests to the path
followed by _.rsc get its component stream. When server.metrics is set,
Prometheus metrics are exposed at /metrics.

Examples:
  folio serve
  folio serve --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}
			return runServe(cmd.Context(), a)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from folio.json)")

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, a)
	if err != nil {
		return err
	}

	a.success("Serving %d routes at http://%s", srv.Engine().Registry().Len(), a.cfg.ServerAddress())
	if err := srv.Run(ctx); err != nil {
		return errors.New("E150").Wrap(err)
	}
	return nil
}

// newServer loads the site and wires the production server.
func newServer(ctx context.Context, a *app) (*server.Server, error) {
	bundle, err := assets.Build(ctx, assets.Options{Source: site.AssetSource(a.cfg), Minify: true})
	if err != nil {
		return nil, errors.New("E141").Wrap(err)
	}

	st, err := site.New(site.SourcesFor(a.cfg), site.Options{
		Meta:     site.MetaFor(a.cfg),
		Manifest: bundle.Manifest,
		Logger:   a.logger,
	})
	if err != nil {
		return nil, err
	}
	engine, err := st.Engine(ctx)
	if err != nil {
		return nil, err
	}

	var metrics *prometheus.Registry
	if a.cfg.Server.Metrics {
		metrics = prometheus.NewRegistry()
		metrics.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return server.New(engine, &server.ServerConfig{
		Address:         a.cfg.ServerAddress(),
		Public:          site.PublicFS(a.cfg),
		Assets:          bundle,
		Metrics:         metrics,
		Tracing:         true,
		Logger:          a.logger,
		ShutdownTimeout: a.cfg.ShutdownTimeout(),
	}), nil
}
