package render

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/vango-dev/folio/pkg/router"
)

func testPages() fstest.MapFS {
	return fstest.MapFS{
		"layout.html":                {Data: []byte(`<html><body>{{template "nav.html" .}}{{.Children}}</body></html>`)},
		"(home)/page.html":           {Data: []byte(`<h1>Home</h1>`)},
		"blog/layout.html":           {Data: []byte(`<section data-route="{{.Route}}">{{.Children}}</section>`)},
		"blog/page.html":             {Data: []byte(`<h1>Blog</h1>`)},
		"blog/[slug]/page.html":      {Data: []byte(`<h1>{{.Params.slug}}</h1><p>{{.Data}}</p>`)},
		"docs/[...path]/page.gohtml": {Data: []byte(`<ol>{{range .Params.path.Strings}}<li>{{.}}</li>{{end}}</ol>`)},
	}
}

func testComponents() fstest.MapFS {
	return fstest.MapFS{
		"nav.html": {Data: []byte(`<nav>{{upper "folio"}} {{.Path}}</nav>`)},
	}
}

func newTestEngine(t testing.TB) *Engine {
	t.Helper()

	loader, err := NewLoader(testPages(),
		WithComponents(testComponents(), "*.html"),
		WithFuncs(map[string]any{"upper": func(s string) string { return "FOLIO" }}),
		WithExports(map[string]Exports{
			"./blog/[slug]/page.html": {
				Data: func(ctx context.Context, params router.Params) (any, error) {
					return "post " + params.Get("slug"), nil
				},
				StaticParams: router.StaticStrings(func(context.Context) ([]string, error) {
					return []string{"one", "two"}, nil
				}),
			},
		}),
	)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}

	reg, err := router.Discover(context.Background(), loader)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	return NewEngine(reg)
}
