package build

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"time"

	"github.com/vango-dev/folio/internal/assets"
	"github.com/vango-dev/folio/internal/config"
	"github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/internal/site"
	"github.com/vango-dev/folio/pkg/render"
	"github.com/vango-dev/folio/pkg/router"
	"github.com/vango-dev/folio/pkg/ssg"
)

// ManifestFile is the output name of the build manifest.
const ManifestFile = "manifest.json"

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Output describes where the files went: the output directory, or
	// the sink given in Options.
	Output string

	// Pages is the number of prerendered paths.
	Pages int

	// Files is the number of files written, manifest included.
	Files int

	// Manifest maps logical asset names to their hashed URLs.
	Manifest assets.Manifest

	// Public maps copied public files to their SHA256 digests.
	Public map[string]string

	// Routes is the enumeration the pages were rendered from.
	Routes *ssg.Result
}

// Options configures the builder.
type Options struct {
	// Output overrides the configured output directory.
	Output string

	// Clean removes the output directory before building. Ignored when
	// Sink is set.
	Clean bool

	// Minify enables asset and HTML minification.
	Minify bool

	// Sink receives every output instead of the output directory.
	Sink ssg.Sink

	// Sources overrides the site sources resolved from the config.
	Sources *site.Sources

	// Logger receives build diagnostics.
	Logger *slog.Logger

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder performs one static build. The module graph and the
// enumeration are computed once and shared by every later step.
type Builder struct {
	config  *config.Config
	options Options

	site   *site.Site
	reg    *router.Registry
	routes *ssg.Result
}

// New creates a new builder.
func New(cfg *config.Config, options Options) *Builder {
	// Apply config defaults to options
	if !options.Minify && cfg.Build.Minify {
		options.Minify = true
	}
	if !options.Clean && cfg.Build.Clean {
		options.Clean = true
	}
	if options.Output == "" {
		options.Output = cfg.OutputPath()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Builder{
		config:  cfg,
		options: options,
	}
}

// Build bundles the assets, prerenders every enumerated path and copies
// the public files. Any failure aborts the build with a coded error.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{Public: make(map[string]string)}

	sink := b.options.Sink
	result.Output = b.options.Output
	if sink == nil {
		if b.options.Clean {
			b.progress("Cleaning output directory...")
			if err := b.Clean(); err != nil {
				return nil, errors.New("E140").WithDetail("Could not clean " + b.options.Output).Wrap(err)
			}
		}
		sink = ssg.NewDirSink(b.options.Output)
	} else if named, ok := sink.(fmt.Stringer); ok {
		result.Output = named.String()
	} else {
		result.Output = fmt.Sprintf("%T", sink)
	}

	b.progress("Bundling assets...")
	bundle, err := assets.Build(ctx, assets.Options{
		Source: site.AssetSource(b.config),
		Minify: b.options.Minify,
	})
	if err != nil {
		return nil, errors.New("E141").Wrap(err)
	}
	for _, f := range bundle.Files {
		if err := sink.Write(ctx, "assets/"+f.Name, f.ContentType(), bytes.NewReader(f.Contents)); err != nil {
			return nil, errors.New("E131").WithFile("assets/" + f.Name).Wrap(err)
		}
		result.Files++
	}
	result.Manifest = bundle.Manifest

	b.progress("Discovering routes...")
	if err := b.load(ctx, bundle.Manifest); err != nil {
		return nil, coded(err)
	}

	b.progress("Enumerating static paths...")
	routes, err := b.enumerate(ctx)
	if err != nil {
		return nil, coded(err)
	}
	result.Routes = routes

	notFound, err := b.site.NotFound()
	if err != nil {
		return nil, coded(err)
	}
	engine := render.NewEngine(b.reg,
		render.WithNotFound(notFound),
		render.WithLogger(b.options.Logger),
	)

	b.progress(fmt.Sprintf("Rendering %d pages...", len(routes.Paths)))
	stats, err := ssg.Build(ctx, engine, routes, sink,
		ssg.WithMinify(b.options.Minify),
		ssg.WithLogger(b.options.Logger),
	)
	if err != nil {
		return nil, coded(err)
	}
	result.Pages = stats.Pages
	result.Files += stats.Files

	b.progress("Copying public files...")
	n, err := b.copyPublic(ctx, sink, result.Public)
	if err != nil {
		return nil, err
	}
	result.Files += n

	b.progress("Writing manifest...")
	if err := b.writeManifest(ctx, sink, result); err != nil {
		return nil, errors.New("E131").WithFile(ManifestFile).Wrap(err)
	}
	result.Files++

	result.Duration = time.Since(start)
	return result, nil
}

// Routes discovers the registry and enumerates its static paths without
// rendering anything. A later Build reuses neither: it reloads the site
// with the asset manifest in place.
func (b *Builder) Routes(ctx context.Context) (*router.Registry, *ssg.Result, error) {
	if err := b.load(ctx, nil); err != nil {
		return nil, nil, coded(err)
	}
	routes, err := b.enumerate(ctx)
	if err != nil {
		return nil, nil, coded(err)
	}
	return b.reg, routes, nil
}

// Registry discovers the route registry alone.
func (b *Builder) Registry(ctx context.Context) (*router.Registry, error) {
	if err := b.load(ctx, nil); err != nil {
		return nil, coded(err)
	}
	return b.reg, nil
}

// load builds the module graph: the site modules and their registry.
func (b *Builder) load(ctx context.Context, manifest assets.Manifest) error {
	src := site.SourcesFor(b.config)
	if b.options.Sources != nil {
		src = *b.options.Sources
	}
	st, err := site.New(src, site.Options{
		Meta:     site.MetaFor(b.config),
		Manifest: manifest,
		Logger:   b.options.Logger,
	})
	if err != nil {
		return err
	}
	reg, err := st.Registry(ctx)
	if err != nil {
		return err
	}
	b.site, b.reg, b.routes = st, reg, nil
	return nil
}

func (b *Builder) enumerate(ctx context.Context) (*ssg.Result, error) {
	if b.routes != nil {
		return b.routes, nil
	}
	routes, err := ssg.Enumerate(ctx, b.reg, ssg.WithLogger(b.options.Logger))
	if err != nil {
		return nil, err
	}
	b.routes = routes
	return routes, nil
}

// copyPublic streams every file under the public directory into sink
// and records its digest.
func (b *Builder) copyPublic(ctx context.Context, sink ssg.Sink, digests map[string]string) (int, error) {
	fsys := site.PublicFS(b.config)
	if fsys == nil {
		return 0, nil // No public directory
	}

	n := 0
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		hash, err := hashFile(fsys, name)
		if err != nil {
			return err
		}
		if err := copyFile(ctx, sink, fsys, name); err != nil {
			return err
		}
		digests[name] = hash
		n++
		return nil
	})
	if err != nil {
		return n, errors.New("E142").Wrap(err)
	}
	return n, nil
}

// manifest is the JSON form of the build manifest.
type manifest struct {
	Built  time.Time         `json:"built"`
	Assets assets.Manifest   `json:"assets"`
	Public map[string]string `json:"public,omitempty"`
	Paths  []string          `json:"paths"`
}

// writeManifest writes the build manifest.
func (b *Builder) writeManifest(ctx context.Context, sink ssg.Sink, result *Result) error {
	m := manifest{
		Built:  time.Now().UTC().Truncate(time.Second),
		Assets: result.Manifest,
		Public: result.Public,
	}
	if result.Routes != nil {
		m.Paths = result.Routes.Paths
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return sink.Write(ctx, ManifestFile, "application/json", bytes.NewReader(data))
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	b.options.Logger.Debug("build", "step", step)
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

// coded lifts library errors into their own codes and wraps the rest
// as E140.
func coded(err error) error {
	if fe := errors.Lift(err); fe != nil {
		return fe
	}
	return errors.New("E140").Wrap(err)
}

// hashFile returns the SHA256 hash of a file.
func hashFile(fsys fs.FS, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile copies a file into sink under the same name.
func copyFile(ctx context.Context, sink ssg.Sink, fsys fs.FS, name string) error {
	in, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return sink.Write(ctx, name, contentType, in)
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.options.Output)
}
