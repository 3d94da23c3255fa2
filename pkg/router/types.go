package router

import (
	"context"
	"io"
	"regexp"
)

// ModuleKind distinguishes page modules from layout modules.
type ModuleKind uint8

const (
	KindPage ModuleKind = iota
	KindLayout
)

func (k ModuleKind) String() string {
	if k == KindLayout {
		return LayoutName
	}
	return PageName
}

// Slot renders the child content passed to a layout.
// It renders the wrapped page or nested layout.
type Slot func(ctx context.Context, w io.Writer) error

// Props is the input a component receives when rendered.
type Props struct {
	// Params holds the matched parameters. Only pages receive params, and
	// only when the route binds at least one.
	Params Params

	// Children renders the wrapped content. Only layouts receive it.
	Children Slot
}

// Component renders a page or a layout.
type Component interface {
	Render(ctx context.Context, w io.Writer, props Props) error
}

// ComponentFunc is a function adapter for Component.
type ComponentFunc func(ctx context.Context, w io.Writer, props Props) error

// Render implements Component.
func (f ComponentFunc) Render(ctx context.Context, w io.Writer, props Props) error {
	return f(ctx, w, props)
}

// StaticParamsFunc enumerates every parameter binding a dynamic route
// should be prerendered with, in output order. Generators must not share
// mutable state: they may run concurrently with each other.
type StaticParamsFunc func(ctx context.Context) ([]Params, error)

// Module is a loaded page or layout module.
type Module struct {
	// ID identifies the module relative to the pages root,
	// e.g. "./blog/[slug]/page.html".
	ID string

	Kind ModuleKind

	// Component renders the module.
	Component Component

	// StaticParams is the static-parameter generator of a dynamic page.
	// Nil for layouts and for pages that declare none.
	StaticParams StaticParamsFunc
}

// Modules is the source of page and layout modules under a pages root.
// Load is called once per identifier during discovery.
type Modules interface {
	// List returns the identifier of every module of the given kind.
	List(kind ModuleKind) ([]string, error)

	// Load loads a single module.
	Load(ctx context.Context, kind ModuleKind, id string) (*Module, error)
}

// RouteEntry is a discovered page together with its compiled route.
// Entries are owned by a Registry and are never modified after discovery.
type RouteEntry struct {
	// PagePath is the page module identifier.
	PagePath string

	// Route is the compiled route pattern, e.g. "/blog/[slug]".
	Route string

	// Module is the loaded page module.
	Module *Module

	// Layouts are the layout modules wrapping the page, root first.
	Layouts []*Module

	// Segments is the parsed form of Route.
	Segments []Segment

	matcher     *regexp.Regexp
	specificity int
	order       int
}

// Dynamic reports whether the route binds parameters.
func (e *RouteEntry) Dynamic() bool {
	return HasParams(e.Segments)
}

// MatchResult contains the result of matching a path against the registry.
type MatchResult struct {
	// Entry is the matched route.
	Entry *RouteEntry

	// Params are the extracted route parameters, nil when there are none.
	Params Params
}
