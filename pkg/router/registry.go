package router

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strings"
)

// DiscoveryError reports a module that could not be listed or loaded.
// Discovery never returns a partial registry.
type DiscoveryError struct {
	Kind ModuleKind
	File string
	Err  error
}

func (e *DiscoveryError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("discover %s modules: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("load %s %s: %v", e.Kind, e.File, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// Registry is the immutable index of discovered pages and layouts.
// It is safe for concurrent use. A changed page tree is picked up by
// discovering a new registry, never by patching an existing one.
type Registry struct {
	entries []*RouteEntry
	dynamic []*RouteEntry
	byRoute map[string]*RouteEntry
	layouts map[string]*Module
	logger  *slog.Logger
}

// Option configures discovery.
type Option func(*options)

type options struct {
	basePath string
	logger   *slog.Logger
}

// WithBasePath sets the prefix stripped from page identifiers before
// compiling them. Defaults to "./".
func WithBasePath(base string) Option {
	return func(o *options) {
		o.basePath = base
	}
}

// WithLogger sets the logger used for discovery warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Discover lists and eagerly loads every page and layout module, compiles
// each page into a route and validates the result. Identifiers are sorted
// and that order is the registry's insertion order.
func Discover(ctx context.Context, mods Modules, opts ...Option) (*Registry, error) {
	o := options{basePath: "./"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	layoutMods, err := loadAll(ctx, mods, KindLayout)
	if err != nil {
		return nil, err
	}
	pageMods, err := loadAll(ctx, mods, KindPage)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		byRoute: make(map[string]*RouteEntry, len(pageMods)),
		layouts: make(map[string]*Module, len(layoutMods)),
		logger:  o.logger,
	}

	for _, m := range layoutMods {
		dir := LayoutDir(m.ID, o.basePath)
		if hasGroup(dir) {
			o.logger.Warn("layout inside a grouping folder is never applied", "file", m.ID)
		}
		r.layouts[dir] = m
	}

	entries := make([]*RouteEntry, 0, len(pageMods))
	for i, m := range pageMods {
		entries = append(entries, &RouteEntry{
			PagePath: m.ID,
			Route:    CompilePattern(m.ID, o.basePath),
			Module:   m,
			order:    i,
		})
	}

	if err := NewValidator(entries).Validate(); err != nil {
		return nil, err
	}

	for _, e := range entries {
		e.Layouts = r.CollectLayouts(e.Route)
		e.specificity = specificity(e.Segments)
		if e.Dynamic() {
			e.matcher = compileMatcher(e.Segments)
			r.dynamic = append(r.dynamic, e)
		}
		r.byRoute[e.Route] = e
	}
	r.entries = entries
	SortBySpecificity(r.dynamic)

	o.logger.Debug("routes discovered", "pages", len(entries), "layouts", len(layoutMods))
	return r, nil
}

// loadAll lists and loads every module of a kind, in identifier order.
func loadAll(ctx context.Context, mods Modules, kind ModuleKind) ([]*Module, error) {
	ids, err := mods.List(kind)
	if err != nil {
		return nil, &DiscoveryError{Kind: kind, Err: err}
	}
	ids = append([]string(nil), ids...)
	sort.Strings(ids)

	out := make([]*Module, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := mods.Load(ctx, kind, id)
		if err != nil {
			return nil, &DiscoveryError{Kind: kind, File: id, Err: err}
		}
		if m == nil || m.Component == nil {
			return nil, &DiscoveryError{Kind: kind, File: id, Err: fmt.Errorf("module has no component")}
		}
		if m.ID == "" {
			m.ID = id
		}
		m.Kind = kind
		out = append(out, m)
	}
	return out, nil
}

// LayoutDir returns the directory key of a layout module:
//
//	LayoutDir("./layout.html", "./")      → "./"
//	LayoutDir("./blog/layout.html", "./") → "./blog/"
func LayoutDir(id, basePath string) string {
	p := strings.TrimPrefix(id, basePath)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	dir := path.Dir(p)
	if dir == "." || dir == "/" {
		return "./"
	}
	return "./" + dir + "/"
}

func hasGroup(dir string) bool {
	for _, seg := range strings.Split(dir, "/") {
		if IsGroup(seg) {
			return true
		}
	}
	return false
}

// CollectLayouts returns the layouts wrapping a route, root first. It
// starts at the pages root and extends the directory one route segment at
// a time, skipping grouping segments.
func (r *Registry) CollectLayouts(route string) []*Module {
	var layouts []*Module

	dir := "./"
	if m, ok := r.layouts[dir]; ok {
		layouts = append(layouts, m)
	}

	for _, seg := range strings.Split(strings.Trim(route, "/"), "/") {
		if seg == "" || IsGroup(seg) {
			continue
		}
		dir += seg + "/"
		if m, ok := r.layouts[dir]; ok {
			layouts = append(layouts, m)
		}
	}

	return layouts
}

// Entries returns every route in insertion order.
func (r *Registry) Entries() []*RouteEntry {
	return append([]*RouteEntry(nil), r.entries...)
}

// Lookup returns the entry for an exact route pattern.
func (r *Registry) Lookup(route string) (*RouteEntry, bool) {
	e, ok := r.byRoute[route]
	return e, ok
}

// layout returns the layout registered for a directory key such as "./blog/".
func (r *Registry) layout(dir string) (*Module, bool) {
	m, ok := r.layouts[dir]
	return m, ok
}

// Len returns the number of routes.
func (r *Registry) Len() int { return len(r.entries) }

// Logger returns the registry's logger.
func (r *Registry) Logger() *slog.Logger { return r.logger }
