package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/folio/internal/dev"
	"github.com/vango-dev/folio/internal/errors"
)

func devCmd(a *app) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server with live reload.

The dev server watches pages, components, content and assets. On every
change it rebuilds the site and refreshes connected browsers. When a
rebuild fails the previous site keeps being served and the error is
shown in the browser.

Examples:
  folio dev
  folio dev --port=8080
  folio dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Dev.Port = port
			}
			if host != "" {
				a.cfg.Dev.Host = host
			}
			return runDev(cmd.Context(), a)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from folio.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from folio.json)")

	return cmd
}

func runDev(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := dev.NewServer(ctx, dev.ServerOptions{
		Config: a.cfg,
		Logger: a.logger,
		OnRebuild: func(err error, took time.Duration) {
			if err == nil {
				a.success("Rebuilt in %s", took.Round(time.Millisecond))
				return
			}
			a.printError(err)
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out)
	a.success("Dev server at %s", a.cfg.DevURL())
	fmt.Fprintln(a.out)

	if err := srv.Start(ctx); err != nil {
		return errors.New("E150").Wrap(err)
	}
	a.info("Shut down")
	return nil
}
