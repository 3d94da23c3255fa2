package config

import (
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vango-dev/folio/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Build.Output != DefaultOutput {
		t.Errorf("Build.Output = %q, want %q", cfg.Build.Output, DefaultOutput)
	}
	if !cfg.Build.Minify {
		t.Error("Build.Minify should default to true")
	}
	if cfg.DebounceInterval() != DefaultDebounce {
		t.Errorf("DebounceInterval() = %v, want %v", cfg.DebounceInterval(), DefaultDebounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	var fe *errors.FolioError
	if !stderrors.As(err, &fe) || fe.Code != "E120" {
		t.Fatalf("Load(missing) error = %v, want E120", err)
	}

	configJSON := `{
  "site": {"title": "Notes"},
  "server": {"port": 8080, "host": "0.0.0.0", "metrics": true},
  "build": {"output": "build", "minify": false},
  "s3": {"bucket": "notes-site", "prefix": "www"},
  "log": {"level": "debug", "format": "json"}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Site.Title != "Notes" {
		t.Errorf("Site.Title = %q", cfg.Site.Title)
	}
	if cfg.Server.Port != 8080 || cfg.Dev.Port != 8080 {
		t.Errorf("ports = %d/%d, want 8080", cfg.Server.Port, cfg.Dev.Port)
	}
	if cfg.Build.Minify {
		t.Error("Build.Minify should be false")
	}
	if !cfg.UseS3() {
		t.Error("UseS3() should be true")
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	if cfg.OutputPath() != filepath.Join(tmpDir, "build") {
		t.Errorf("OutputPath() = %q", cfg.OutputPath())
	}
	if cfg.Paths.Pages != "internal/site/pages" {
		t.Errorf("Paths.Pages default = %q", cfg.Paths.Pages)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(tmpDir)
	var fe *errors.FolioError
	if !stderrors.As(err, &fe) || fe.Code != "E121" {
		t.Fatalf("error = %v, want E121", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadOrDefault(tmpDir)
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}
	if cfg.PublicPath() != filepath.Join(tmpDir, "public") {
		t.Errorf("PublicPath() = %q", cfg.PublicPath())
	}

	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(`{"build":{"output":"out"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadOrDefault(nested)
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
	if cfg.OutputPath() != filepath.Join(tmpDir, "out") {
		t.Errorf("OutputPath() = %q", cfg.OutputPath())
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FOLIO_PORT":      "9090",
		"FOLIO_HOST":      "127.0.0.1",
		"FOLIO_OUTPUT":    "/tmp/site",
		"FOLIO_S3_BUCKET": "bucket",
		"FOLIO_S3_PREFIX": "preview",
		"FOLIO_S3_REGION": "eu-west-1",
		"FOLIO_LOG_LEVEL": "warn",
		"FOLIO_METRICS":   "true",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := New()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv error: %v", err)
	}

	if cfg.ServerAddress() != "127.0.0.1:9090" {
		t.Errorf("ServerAddress() = %q", cfg.ServerAddress())
	}
	if cfg.DevAddress() != "127.0.0.1:9090" {
		t.Errorf("DevAddress() = %q", cfg.DevAddress())
	}
	if cfg.OutputPath() != "/tmp/site" {
		t.Errorf("OutputPath() = %q", cfg.OutputPath())
	}
	if cfg.S3.Bucket != "bucket" || cfg.S3.Prefix != "preview" || cfg.S3.Region != "eu-west-1" {
		t.Errorf("S3 = %+v", cfg.S3)
	}
	if cfg.LogLevel() != slog.LevelWarn {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	if !cfg.Server.Metrics {
		t.Error("Server.Metrics should be true")
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port", "FOLIO_PORT", "eighty"},
		{"metrics", "FOLIO_METRICS", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == tt.key {
					return tt.val, true
				}
				return "", false
			}
			if err := New().ApplyEnv(lookup); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, false},
		{"negative dev port", func(c *Config) { c.Dev.Port = -1 }, false},
		{"bad shutdown", func(c *Config) { c.Server.ShutdownTimeout = "soon" }, false},
		{"bad debounce", func(c *Config) { c.Dev.Debounce = "fast" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"prefix without bucket", func(c *Config) { c.S3.Prefix = "www" }, false},
		{"absolute prefix", func(c *Config) { c.S3.Bucket = "b"; c.S3.Prefix = "/www" }, false},
		{"bucket and prefix", func(c *Config) { c.S3.Bucket = "b"; c.S3.Prefix = "www" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := New()
	cfg.Server.ShutdownTimeout = "3s"
	cfg.Dev.Debounce = "250ms"

	if cfg.ShutdownTimeout() != 3*time.Second {
		t.Errorf("ShutdownTimeout() = %v", cfg.ShutdownTimeout())
	}
	if cfg.DebounceInterval() != 250*time.Millisecond {
		t.Errorf("DebounceInterval() = %v", cfg.DebounceInterval())
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	if _, err := FindProjectRoot(tmpDir); err == nil {
		t.Error("expected error without folio.json")
	}

	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(tmpDir, "pages", "blog")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(sub)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("root = %q, want %q", root, tmpDir)
	}
}
