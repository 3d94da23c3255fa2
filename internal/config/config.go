package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/folio/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "folio.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultDebounce is the default delay between a file change and a rebuild.
	DefaultDebounce = 100 * time.Millisecond
)

// Config represents the complete folio.json configuration.
type Config struct {
	// Site contains metadata rendered into every page.
	Site SiteConfig `json:"site,omitempty"`

	// Paths contains the project directories read in development.
	Paths PathsConfig `json:"paths,omitempty"`

	// Server contains production server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Build contains static build configuration.
	Build BuildConfig `json:"build,omitempty"`

	// S3 uploads the build to a bucket instead of the output directory
	// when Bucket is set.
	S3 S3Config `json:"s3,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	configPath string
	root       string
}

// SiteConfig contains site metadata.
type SiteConfig struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	// URL is the canonical origin, e.g. "https://example.com".
	URL string `json:"url,omitempty"`
}

// PathsConfig contains path configuration for project directories.
type PathsConfig struct {
	Pages      string `json:"pages,omitempty"`
	Components string `json:"components,omitempty"`
	Posts      string `json:"posts,omitempty"`
	Docs       string `json:"docs,omitempty"`
	Assets     string `json:"assets,omitempty"`
	Public     string `json:"public,omitempty"`
}

// ServerConfig contains production server settings.
type ServerConfig struct {
	Port int    `json:"port,omitempty"`
	Host string `json:"host,omitempty"`

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool `json:"metrics,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`
}

// DevConfig contains development server settings.
type DevConfig struct {
	Port int    `json:"port,omitempty"`
	Host string `json:"host,omitempty"`

	// Ignore contains glob patterns excluded from watching.
	Ignore []string `json:"ignore,omitempty"`

	// Debounce is the delay between a change and the rebuild (e.g., "100ms").
	Debounce string `json:"debounce,omitempty"`
}

// BuildConfig contains static build settings.
type BuildConfig struct {
	Output string `json:"output,omitempty"`
	Minify bool   `json:"minify,omitempty"`
	Clean  bool   `json:"clean,omitempty"`
}

// S3Config contains bucket upload settings.
type S3Config struct {
	Bucket       string `json:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	Region       string `json:"region,omitempty"`
	CacheControl string `json:"cacheControl,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := base()
	c.applyDefaults()
	return c
}

// base holds the defaults that a file may switch off. Derived defaults
// are filled by applyDefaults after the file is read.
func base() *Config {
	return &Config{
		Site: SiteConfig{
			Title: "folio",
		},
		Build: BuildConfig{
			Minify: true,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for folio.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E120").
				WithDetail("No folio.json found in " + filepath.Dir(path)).
				WithSuggestion("Create folio.json or run folio from the project root")
		}
		return nil, errors.New("E121").Wrap(err)
	}

	cfg := base()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E121").
			WithFile(path).
			WithDetail("Failed to parse folio.json: " + err.Error()).
			WithSuggestion("Check that folio.json is valid JSON")
	}

	cfg.configPath = path
	cfg.root = filepath.Dir(path)
	cfg.applyDefaults()

	return cfg, nil
}

// LoadOrDefault loads folio.json from dir or one of its parents. When no
// file exists the defaults are returned, rooted at dir.
func LoadOrDefault(dir string) (*Config, error) {
	root, err := FindProjectRoot(dir)
	if err != nil {
		abs, absErr := filepath.Abs(dir)
		if absErr != nil {
			return nil, absErr
		}
		cfg := New()
		cfg.root = abs
		return cfg, nil
	}
	return Load(root)
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the project root.
func (c *Config) Dir() string {
	return c.root
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Paths.Pages == "" {
		c.Paths.Pages = "internal/site/pages"
	}
	if c.Paths.Components == "" {
		c.Paths.Components = "internal/site/components"
	}
	if c.Paths.Posts == "" {
		c.Paths.Posts = "internal/site/posts"
	}
	if c.Paths.Docs == "" {
		c.Paths.Docs = "internal/site/docs"
	}
	if c.Paths.Assets == "" {
		c.Paths.Assets = "internal/assets/src"
	}
	if c.Paths.Public == "" {
		c.Paths.Public = "public"
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}

	if c.Dev.Port == 0 {
		c.Dev.Port = c.Server.Port
	}
	if c.Dev.Host == "" {
		c.Dev.Host = c.Server.Host
	}
	if c.Dev.Ignore == nil {
		c.Dev.Ignore = []string{"**/.*", "**/.*/**", "**/*~", "**/*.swp", "**/node_modules/**"}
	}
	if c.Dev.Debounce == "" {
		c.Dev.Debounce = DefaultDebounce.String()
	}

	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// ApplyEnv overrides fields from FOLIO_* environment variables. lookup is
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("FOLIO_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E122").
				WithDetail("FOLIO_PORT must be a number, got " + strconv.Quote(v))
		}
		c.Server.Port = port
		c.Dev.Port = port
	}
	if v, ok := lookup("FOLIO_HOST"); ok {
		c.Server.Host = v
		c.Dev.Host = v
	}
	if v, ok := lookup("FOLIO_OUTPUT"); ok {
		c.Build.Output = v
	}
	if v, ok := lookup("FOLIO_S3_BUCKET"); ok {
		c.S3.Bucket = v
	}
	if v, ok := lookup("FOLIO_S3_PREFIX"); ok {
		c.S3.Prefix = v
	}
	if v, ok := lookup("FOLIO_S3_REGION"); ok {
		c.S3.Region = v
	}
	if v, ok := lookup("FOLIO_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("FOLIO_METRICS"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New("E122").
				WithDetail("FOLIO_METRICS must be a boolean, got " + strconv.Quote(v))
		}
		c.Server.Metrics = enabled
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	for _, port := range []int{c.Server.Port, c.Dev.Port} {
		if port < 0 || port > 65535 {
			return errors.New("E122").
				WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(port))
		}
	}

	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New("E122").
			WithDetail("server.shutdownTimeout is not a duration").
			Wrap(err)
	}
	if _, err := time.ParseDuration(c.Dev.Debounce); err != nil {
		return errors.New("E122").
			WithDetail("dev.debounce is not a duration").
			Wrap(err)
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E122").
			WithDetail("log.level must be one of debug, info, warn, error").
			WithSuggestion("Set \"log\": {\"level\": \"info\"}")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E122").
			WithDetail("log.format must be text or json")
	}

	if c.S3.Bucket == "" && (c.S3.Prefix != "" || c.S3.CacheControl != "") {
		return errors.New("E122").
			WithDetail("s3.prefix and s3.cacheControl need s3.bucket")
	}
	if strings.HasPrefix(c.S3.Prefix, "/") {
		return errors.New("E122").
			WithDetail("s3.prefix must not start with /")
	}

	return nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// ServerAddress returns the address the production server listens on.
func (c *Config) ServerAddress() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// DevAddress returns the address the development server listens on.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// DebounceInterval returns the parsed watcher debounce.
func (c *Config) DebounceInterval() time.Duration {
	d, err := time.ParseDuration(c.Dev.Debounce)
	if err != nil {
		return DefaultDebounce
	}
	return d
}

// UseS3 reports whether the build is uploaded to a bucket.
func (c *Config) UseS3() bool {
	return c.S3.Bucket != ""
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.root, path)
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string { return c.resolve(c.Build.Output) }

// PagesPath returns the absolute path to the pages directory.
func (c *Config) PagesPath() string { return c.resolve(c.Paths.Pages) }

// ComponentsPath returns the absolute path to the components directory.
func (c *Config) ComponentsPath() string { return c.resolve(c.Paths.Components) }

// PostsPath returns the absolute path to the posts directory.
func (c *Config) PostsPath() string { return c.resolve(c.Paths.Posts) }

// DocsPath returns the absolute path to the docs directory.
func (c *Config) DocsPath() string { return c.resolve(c.Paths.Docs) }

// AssetsPath returns the absolute path to the client asset sources.
func (c *Config) AssetsPath() string { return c.resolve(c.Paths.Assets) }

// PublicPath returns the absolute path to the public directory.
func (c *Config) PublicPath() string { return c.resolve(c.Paths.Public) }

// WatchPaths returns the directories the development watcher observes.
func (c *Config) WatchPaths() []string {
	return []string{c.PagesPath(), c.ComponentsPath(), c.PostsPath(), c.DocsPath(), c.AssetsPath()}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing folio.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E120").
				WithDetail("No folio.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
