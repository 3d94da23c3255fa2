package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vango-dev/folio/pkg/router"
)

// DataFunc loads the data a page or layout template renders with.
type DataFunc func(ctx context.Context, params router.Params) (any, error)

// Exports are the Go-side exports of a template module.
type Exports struct {
	// Data is called on every render; its result is available as .Data.
	Data DataFunc

	// StaticParams is the static-parameter generator of a dynamic page.
	StaticParams router.StaticParamsFunc
}

// View is the value every module template executes with.
type View struct {
	// Params are the matched route parameters (pages only).
	Params router.Params

	// Data is the result of the module's Data export.
	Data any

	// Children is the rendered child content (layouts only).
	Children template.HTML

	// Path and Route describe the request being rendered.
	Path  string
	Route string

	// Layouts is the comma-separated layout chain of the request. Client
	// navigation compares it to decide whether a page swap is enough.
	Layouts string

	// Dev is set when serving in development mode.
	Dev bool
}

// Loader loads html/template modules from a file system. It implements
// router.Modules: pages are page.{html,gohtml,tmpl} files and layouts are
// layout.{html,gohtml,tmpl} files at any depth. Identifiers have the form
// "./blog/[slug]/page.html".
type Loader struct {
	fsys    fs.FS
	base    *template.Template
	exports map[string]Exports
	dev     bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderConfig)

type loaderConfig struct {
	funcs      template.FuncMap
	components fs.FS
	patterns   []string
	exports    map[string]Exports
	dev        bool
}

// WithFuncs adds template functions available to every module.
func WithFuncs(funcs template.FuncMap) LoaderOption {
	return func(c *loaderConfig) {
		if c.funcs == nil {
			c.funcs = make(template.FuncMap)
		}
		for k, v := range funcs {
			c.funcs[k] = v
		}
	}
}

// WithComponents parses shared templates matching the doublestar
// patterns once; every module can invoke them with {{template}}.
func WithComponents(fsys fs.FS, patterns ...string) LoaderOption {
	return func(c *loaderConfig) {
		c.components = fsys
		c.patterns = patterns
	}
}

// WithExports binds Go exports to module identifiers.
func WithExports(exports map[string]Exports) LoaderOption {
	return func(c *loaderConfig) {
		c.exports = exports
	}
}

// WithDevMode marks rendered views as development views.
func WithDevMode(dev bool) LoaderOption {
	return func(c *loaderConfig) {
		c.dev = dev
	}
}

// NewLoader creates a loader over the pages file system.
func NewLoader(pages fs.FS, opts ...LoaderOption) (*Loader, error) {
	cfg := loaderConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	base := template.New("").Funcs(template.FuncMap(cfg.funcs))
	if cfg.components != nil {
		for _, pattern := range cfg.patterns {
			matches, err := doublestar.Glob(cfg.components, pattern)
			if err != nil {
				return nil, fmt.Errorf("glob components %s: %w", pattern, err)
			}
			sort.Strings(matches)
			for _, name := range matches {
				src, err := fs.ReadFile(cfg.components, name)
				if err != nil {
					return nil, fmt.Errorf("read component %s: %w", name, err)
				}
				if _, err := base.New(name).Parse(string(src)); err != nil {
					return nil, fmt.Errorf("parse component %s: %w", name, err)
				}
			}
		}
	}

	return &Loader{
		fsys:    pages,
		base:    base,
		exports: cfg.exports,
		dev:     cfg.dev,
	}, nil
}

func modulePattern(kind router.ModuleKind) string {
	exts := make([]string, len(router.Extensions))
	for i, e := range router.Extensions {
		exts[i] = strings.TrimPrefix(e, ".")
	}
	return "**/" + kind.String() + ".{" + strings.Join(exts, ",") + "}"
}

// List implements router.Modules.
func (l *Loader) List(kind router.ModuleKind) ([]string, error) {
	matches, err := doublestar.Glob(l.fsys, modulePattern(kind))
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = "./" + m
	}
	sort.Strings(ids)
	return ids, nil
}

// Load implements router.Modules. The template is parsed against a clone
// of the shared component set.
func (l *Loader) Load(ctx context.Context, kind router.ModuleKind, id string) (*router.Module, error) {
	name := strings.TrimPrefix(id, "./")
	src, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, err
	}

	t, err := l.base.Clone()
	if err != nil {
		return nil, err
	}
	t, err = t.New(id).Parse(string(src))
	if err != nil {
		return nil, err
	}

	exp := l.exports[id]
	if kind == router.KindLayout && exp.StaticParams != nil {
		return nil, fmt.Errorf("layout %s exports a static-parameter generator", id)
	}

	return &router.Module{
		ID:           id,
		Kind:         kind,
		Component:    &templateComponent{tmpl: t, data: exp.Data, dev: l.dev},
		StaticParams: exp.StaticParams,
	}, nil
}

// Component returns a shared component template as a router.Component,
// e.g. a not-found document.
func (l *Loader) Component(name string, data DataFunc) (router.Component, error) {
	t, err := l.base.Clone()
	if err != nil {
		return nil, err
	}
	t = t.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("component %s not found", name)
	}
	return &templateComponent{tmpl: t, data: data, dev: l.dev}, nil
}

// CheckExports reports exports bound to identifiers that name no module.
func (l *Loader) CheckExports() error {
	known := make(map[string]bool)
	for _, kind := range []router.ModuleKind{router.KindPage, router.KindLayout} {
		ids, err := l.List(kind)
		if err != nil {
			return err
		}
		for _, id := range ids {
			known[id] = true
		}
	}

	var unknown []string
	for id := range l.exports {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("exports bound to unknown modules: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// templateComponent renders a parsed module template.
type templateComponent struct {
	tmpl *template.Template
	data DataFunc
	dev  bool
}

// Render implements router.Component. Children are rendered into a
// buffer first so the template can place them anywhere.
func (c *templateComponent) Render(ctx context.Context, w io.Writer, props router.Props) error {
	view := View{Params: props.Params, Dev: c.dev}
	if req, ok := RequestFrom(ctx); ok {
		view.Path = req.Path
		view.Route = req.Route
		view.Layouts = strings.Join(req.Layouts, ",")
	}

	if c.data != nil {
		data, err := c.data(ctx, props.Params)
		if err != nil {
			return fmt.Errorf("%s: load data: %w", c.tmpl.Name(), err)
		}
		view.Data = data
	}

	if props.Children != nil {
		var buf bytes.Buffer
		if err := props.Children(ctx, &buf); err != nil {
			return err
		}
		view.Children = template.HTML(buf.String())
	}

	return c.tmpl.Execute(w, view)
}
