// Package assets bundles the client scripts and styles with esbuild.
package assets

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	esbuild "github.com/evanw/esbuild/pkg/api"
)

//go:embed src
var embedded embed.FS

// Source returns the embedded client sources.
func Source() fs.FS {
	sub, err := fs.Sub(embedded, "src")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultEntries are the entry points bundled for the site.
var DefaultEntries = []string{"theme.ts", "navigate.ts", "styles.css"}

// Options configures Bundle.
type Options struct {
	// Source holds the entry points and everything they import.
	Source fs.FS

	// Entries are paths in Source. Defaults to DefaultEntries.
	Entries []string

	// Base is the URL prefix of the bundled files. Defaults to "/assets/".
	Base string

	Minify    bool
	SourceMap bool
}

// File is one bundled output.
type File struct {
	// Name is the hashed file name, e.g. "theme-4KJ2X7QM.js".
	Name     string
	Contents []byte
}

// ContentType returns the MIME type of the file.
func (f File) ContentType() string {
	if ct := mime.TypeByExtension(path.Ext(f.Name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Manifest maps logical names ("theme.js") to public URLs
// ("/assets/theme-4KJ2X7QM.js").
type Manifest map[string]string

// URL returns the public URL of a logical name, or "" when unknown.
func (m Manifest) URL(name string) string {
	return m[name]
}

// Names returns the logical names, sorted.
func (m Manifest) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bundle is the output of a bundling run.
type Bundle struct {
	Manifest Manifest
	Files    []File
}

// Lookup returns the bundled file with the given hashed name.
func (b *Bundle) Lookup(name string) (File, bool) {
	for _, f := range b.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// ServeHTTP serves bundled files by hashed name. Mount it with the Base
// prefix stripped. Names carry a content hash, so responses are cached
// for good.
func (b *Bundle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, ok := b.Lookup(strings.TrimPrefix(r.URL.Path, "/"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, f.Name, time.Time{}, bytes.NewReader(f.Contents))
}

// Build bundles opts.Entries. Nothing is written to disk.
func Build(ctx context.Context, opts Options) (*Bundle, error) {
	if opts.Source == nil {
		opts.Source = Source()
	}
	if len(opts.Entries) == 0 {
		opts.Entries = DefaultEntries
	}
	if opts.Base == "" {
		opts.Base = "/assets/"
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sourcemap := esbuild.SourceMapNone
	if opts.SourceMap {
		sourcemap = esbuild.SourceMapInline
	}

	result := esbuild.Build(esbuild.BuildOptions{
		EntryPoints:       opts.Entries,
		Bundle:            true,
		Write:             false,
		Outdir:            "/out",
		EntryNames:        "[name]-[hash]",
		Format:            esbuild.FormatIIFE,
		Target:            esbuild.ES2020,
		MinifyWhitespace:  opts.Minify,
		MinifyIdentifiers: opts.Minify,
		MinifySyntax:      opts.Minify,
		Sourcemap:         sourcemap,
		LogLevel:          esbuild.LogLevelSilent,
		Plugins:           []esbuild.Plugin{fsPlugin(opts.Source)},
	})
	if len(result.Errors) > 0 {
		return nil, &BundleError{Messages: result.Errors}
	}

	b := &Bundle{Manifest: make(Manifest, len(result.OutputFiles))}
	for _, out := range result.OutputFiles {
		name := path.Base(out.Path)
		b.Files = append(b.Files, File{Name: name, Contents: out.Contents})
		b.Manifest[logicalName(name)] = opts.Base + name
	}
	sort.Slice(b.Files, func(i, j int) bool { return b.Files[i].Name < b.Files[j].Name })
	return b, nil
}

// BundleError carries the messages esbuild reported.
type BundleError struct {
	Messages []esbuild.Message
}

func (e *BundleError) Error() string {
	lines := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		if m.Location != nil {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
			continue
		}
		lines = append(lines, m.Text)
	}
	return "bundle: " + strings.Join(lines, "; ")
}

// logicalName strips the content hash: "theme-4KJ2X7QM.js" → "theme.js".
func logicalName(hashed string) string {
	ext := path.Ext(hashed)
	base := strings.TrimSuffix(hashed, ext)
	if i := strings.LastIndex(base, "-"); i > 0 {
		base = base[:i]
	}
	return base + ext
}

const namespace = "folio-src"

// fsPlugin resolves and loads every module from fsys, so embedded
// sources bundle without touching the disk.
func fsPlugin(fsys fs.FS) esbuild.Plugin {
	return esbuild.Plugin{
		Name: "folio-fs",
		Setup: func(build esbuild.PluginBuild) {
			build.OnResolve(esbuild.OnResolveOptions{Filter: ".*"},
				func(args esbuild.OnResolveArgs) (esbuild.OnResolveResult, error) {
					p := args.Path
					if args.Kind != esbuild.ResolveEntryPoint {
						p = path.Join(path.Dir(args.Importer), p)
					}
					p = strings.TrimPrefix(path.Clean(p), "/")
					resolved, err := resolveFile(fsys, p)
					if err != nil {
						return esbuild.OnResolveResult{}, err
					}
					return esbuild.OnResolveResult{Path: resolved, Namespace: namespace}, nil
				})

			build.OnLoad(esbuild.OnLoadOptions{Filter: ".*", Namespace: namespace},
				func(args esbuild.OnLoadArgs) (esbuild.OnLoadResult, error) {
					data, err := fs.ReadFile(fsys, args.Path)
					if err != nil {
						return esbuild.OnLoadResult{}, err
					}
					contents := string(data)
					return esbuild.OnLoadResult{
						Contents: &contents,
						Loader:   loaderFor(args.Path),
					}, nil
				})
		},
	}
}

var resolveExtensions = []string{"", ".ts", ".js", ".css"}

func resolveFile(fsys fs.FS, p string) (string, error) {
	for _, ext := range resolveExtensions {
		candidate := p + ext
		if info, err := fs.Stat(fsys, candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cannot resolve %s", p)
}

func loaderFor(p string) esbuild.Loader {
	switch path.Ext(p) {
	case ".ts":
		return esbuild.LoaderTS
	case ".css":
		return esbuild.LoaderCSS
	case ".json":
		return esbuild.LoaderJSON
	default:
		return esbuild.LoaderJS
	}
}
