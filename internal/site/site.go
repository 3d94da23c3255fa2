// Package site is the folio blog: its page tree, shared components,
// posts and docs, and the Go exports that feed them.
package site

//go:generate go run ../../cmd/folio gen types --package site --output routes_gen.go

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/vango-dev/folio/internal/assets"
	"github.com/vango-dev/folio/internal/content"
	"github.com/vango-dev/folio/pkg/render"
	"github.com/vango-dev/folio/pkg/router"
)

//go:embed pages components posts docs
var embedded embed.FS

// Sources are the file trees a site is built from.
type Sources struct {
	Pages      fs.FS
	Components fs.FS
	Posts      fs.FS
	Docs       fs.FS
}

// Embedded returns the sources compiled into the binary.
func Embedded() Sources {
	return Sources{
		Pages:      mustSub("pages"),
		Components: mustSub("components"),
		Posts:      mustSub("posts"),
		Docs:       mustSub("docs"),
	}
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(embedded, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// DirSources reads the sources from disk, so edits show up without
// recompiling.
func DirSources(pages, components, posts, docs string) Sources {
	return Sources{
		Pages:      os.DirFS(pages),
		Components: os.DirFS(components),
		Posts:      os.DirFS(posts),
		Docs:       os.DirFS(docs),
	}
}

// Meta is the site metadata available to templates as {{site}}.
type Meta struct {
	Title       string
	Description string
	URL         string
}

// Options configures a site.
type Options struct {
	Meta     Meta
	Manifest assets.Manifest
	Dev      bool
	Logger   *slog.Logger
}

// Site is a loaded blog.
type Site struct {
	src    Sources
	opts   Options
	posts  *content.Collection
	docs   *content.Collection
	loader *render.Loader
}

// New loads the posts and docs and prepares the template loader.
func New(src Sources, opts Options) (*Site, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	posts, err := content.Load(src.Posts, content.WithPattern("*.md"), content.WithLinkBase("/blog/"))
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	docs, err := content.Load(src.Docs, content.Undated(), content.WithLinkBase("/docs/"))
	if err != nil {
		return nil, fmt.Errorf("load docs: %w", err)
	}

	s := &Site{src: src, opts: opts, posts: posts, docs: docs}

	loader, err := render.NewLoader(src.Pages,
		render.WithComponents(src.Components, "*.html"),
		render.WithFuncs(s.funcs()),
		render.WithExports(s.exports()),
		render.WithDevMode(opts.Dev),
	)
	if err != nil {
		return nil, err
	}
	if err := loader.CheckExports(); err != nil {
		return nil, err
	}
	s.loader = loader

	opts.Logger.Debug("site loaded", "posts", posts.Len(), "docs", docs.Len())
	return s, nil
}

// Modules returns the page and layout modules of the site.
func (s *Site) Modules() router.Modules {
	return s.loader
}

// Registry discovers the route registry of the site.
func (s *Site) Registry(ctx context.Context) (*router.Registry, error) {
	return router.Discover(ctx, s.loader, router.WithLogger(s.opts.Logger))
}

// NotFound returns the component rendered for unmatched paths.
func (s *Site) NotFound() (router.Component, error) {
	return s.loader.Component("not-found.html", nil)
}

// Engine discovers the registry and returns an engine serving it.
func (s *Site) Engine(ctx context.Context) (*render.Engine, error) {
	reg, err := s.Registry(ctx)
	if err != nil {
		return nil, err
	}
	notFound, err := s.NotFound()
	if err != nil {
		return nil, err
	}
	return render.NewEngine(reg, render.WithNotFound(notFound), render.WithLogger(s.opts.Logger)), nil
}

// Posts returns the blog posts, newest first.
func (s *Site) Posts() *content.Collection { return s.posts }

// Docs returns the documentation pages.
func (s *Site) Docs() *content.Collection { return s.docs }

func (s *Site) funcs() template.FuncMap {
	return template.FuncMap{
		"site": func() Meta { return s.opts.Meta },
		"asset": func(name string) string {
			if url := s.opts.Manifest.URL(name); url != "" {
				return url
			}
			return "/assets/" + name
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			return t.Format(time.DateOnly)
		},
		"join": strings.Join,
		"dev":  func() bool { return s.opts.Dev },
	}
}
