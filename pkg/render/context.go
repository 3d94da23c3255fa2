package render

import (
	"context"

	"github.com/vango-dev/folio/pkg/router"
)

// Request describes the path being rendered.
type Request struct {
	// Path is the requested path, without PayloadSuffix.
	Path string

	// Route is the matched route pattern, empty when not found.
	Route string

	// Layouts are the identifiers of the layouts wrapping the page,
	// root first.
	Layouts []string
}

func requestFor(pathname string, m *router.MatchResult) Request {
	layouts := make([]string, len(m.Entry.Layouts))
	for i, l := range m.Entry.Layouts {
		layouts[i] = l.ID
	}
	return Request{Path: pathname, Route: m.Entry.Route, Layouts: layouts}
}

type requestKey struct{}

// WithRequest returns a context carrying req.
func WithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// RequestFrom returns the request carried by ctx.
func RequestFrom(ctx context.Context) (Request, bool) {
	req, ok := ctx.Value(requestKey{}).(Request)
	return req, ok
}
