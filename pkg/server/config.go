package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address is the address to listen on.
	// Default: "localhost:3000".
	Address string

	// Public holds files served as is, e.g. favicon.ico and robots.txt.
	// A public file shadows a page with the same path.
	Public fs.FS

	// Assets serves the bundled client assets under AssetsPrefix.
	Assets http.Handler

	// AssetsPrefix is the URL prefix of Assets.
	// Default: "/assets/".
	AssetsPrefix string

	// Metrics registers the request metrics and exposes them at /metrics.
	// Nil disables both.
	Metrics *prometheus.Registry

	// Tracing enables OpenTelemetry server spans.
	Tracing bool

	// Dev reports render error details to the browser.
	Dev bool

	// Logger receives request and lifecycle logs.
	// Default: slog.Default().
	Logger *slog.Logger

	// Server lifecycle

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds the time to read request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes.
	// Default: 30 seconds.
	WriteTimeout time.Duration

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120 seconds.
	IdleTimeout time.Duration
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           "localhost:3000",
		AssetsPrefix:      "/assets/",
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.AssetsPrefix == "" {
		out.AssetsPrefix = defaults.AssetsPrefix
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = defaults.IdleTimeout
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
