package render

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/vango-dev/folio/pkg/router"
)

func TestSplitPayloadPath(t *testing.T) {
	tests := []struct {
		in          string
		wantPath    string
		wantPayload bool
	}{
		{"/blog/one/_.rsc", "/blog/one/", true},
		{"/blog/one_.rsc", "/blog/one", true},
		{"/_.rsc", "/", true},
		{"_.rsc", "/", true},
		{"/blog/one/", "/blog/one/", false},
		{"/", "/", false},
	}

	for _, tt := range tests {
		p, payload := SplitPayloadPath(tt.in)
		if p != tt.wantPath || payload != tt.wantPayload {
			t.Errorf("SplitPayloadPath(%q) = %q, %v; want %q, %v", tt.in, p, payload, tt.wantPath, tt.wantPayload)
		}
	}
}

func TestLoaderList(t *testing.T) {
	loader, err := NewLoader(testPages())
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}

	pages, err := loader.List(router.KindPage)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	want := "./(home)/page.html,./blog/[slug]/page.html,./blog/page.html,./docs/[...path]/page.gohtml"
	if got := strings.Join(pages, ","); got != want {
		t.Errorf("pages = %s, want %s", got, want)
	}

	layouts, err := loader.List(router.KindLayout)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if got := strings.Join(layouts, ","); got != "./blog/layout.html,./layout.html" {
		t.Errorf("layouts = %s", got)
	}
}

func TestLoaderParseError(t *testing.T) {
	pages := testPages()
	pages["broken/page.html"] = &fstest.MapFile{Data: []byte(`{{if}}`)}

	loader, err := NewLoader(pages)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	if _, err := router.Discover(context.Background(), loader); err == nil {
		t.Fatal("expected discovery error for a malformed template")
	}
}

func TestLoaderCheckExports(t *testing.T) {
	loader, err := NewLoader(testPages(), WithExports(map[string]Exports{
		"./blog/[slug]/page.html": {},
		"./blog/[id]/page.html":   {},
	}))
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}

	err = loader.CheckExports()
	if err == nil || !strings.Contains(err.Error(), "./blog/[id]/page.html") {
		t.Errorf("CheckExports() = %v, want unknown ./blog/[id]/page.html", err)
	}
}

func TestRenderDocument(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		path string
		want string
	}{
		{"/", `<html><body><nav>FOLIO /</nav><h1>Home</h1></body></html>`},
		{"/blog", `<html><body><nav>FOLIO /blog</nav><section data-route="/blog"><h1>Blog</h1></section></body></html>`},
		{"/blog/one", `<html><body><nav>FOLIO /blog/one</nav><section data-route="/blog/[slug]"><h1>one</h1><p>post one</p></section></body></html>`},
		{"/docs/a/b", `<html><body><nav>FOLIO /docs/a/b</nav><ol><li>a</li><li>b</li></ol></body></html>`},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		found, err := e.RenderDocument(context.Background(), &buf, tt.path)
		if err != nil {
			t.Fatalf("RenderDocument(%q) error: %v", tt.path, err)
		}
		if !found {
			t.Errorf("RenderDocument(%q) not found", tt.path)
		}
		if buf.String() != tt.want {
			t.Errorf("RenderDocument(%q) =\n%s\nwant\n%s", tt.path, buf.String(), tt.want)
		}
	}
}

func TestRenderDocumentNotFound(t *testing.T) {
	e := newTestEngine(t)

	var buf bytes.Buffer
	found, err := e.RenderDocument(context.Background(), &buf, "/missing")
	if err != nil {
		t.Fatalf("RenderDocument error: %v", err)
	}
	if found {
		t.Error("RenderDocument(/missing) reported found")
	}
	if !strings.Contains(buf.String(), "<p>Not found</p>") {
		t.Errorf("not-found body = %s", buf.String())
	}
}

func TestRenderPayload(t *testing.T) {
	e := newTestEngine(t)

	var buf bytes.Buffer
	found, err := e.RenderPayload(context.Background(), &buf, "/blog/one/")
	if err != nil || !found {
		t.Fatalf("RenderPayload = %v, %v", found, err)
	}

	records, err := readPayload(&buf)
	if err != nil {
		t.Fatalf("readPayload error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4: %+v", len(records), records)
	}

	route := records[0]
	if route.Type != RecordRoute || route.Route != "/blog/[slug]" || route.Params.Get("slug") != "one" {
		t.Errorf("route record = %+v", route)
	}
	if records[1].ID != "./layout.html" || records[2].ID != "./blog/layout.html" {
		t.Errorf("layout records = %+v, %+v; want root first", records[1], records[2])
	}
	page := records[3]
	if page.Type != RecordPage || page.HTML != "<h1>one</h1><p>post one</p>" || page.Depth != 2 {
		t.Errorf("page record = %+v", page)
	}
}

func TestRenderPayloadCatchAllParams(t *testing.T) {
	e := newTestEngine(t)

	var buf bytes.Buffer
	if _, err := e.RenderPayload(context.Background(), &buf, "/docs/x"); err != nil {
		t.Fatalf("RenderPayload error: %v", err)
	}
	if !strings.Contains(buf.String(), `"params":{"path":["x"]}`) {
		t.Errorf("catch-all param should encode as an array: %s", buf.String())
	}
}

func TestRenderPayloadNotFound(t *testing.T) {
	e := newTestEngine(t)

	var buf bytes.Buffer
	found, err := e.RenderPayload(context.Background(), &buf, "/nope")
	if err != nil || found {
		t.Fatalf("RenderPayload = %v, %v", found, err)
	}
	records, _ := readPayload(&buf)
	if len(records) != 1 || records[0].Type != RecordNotFound {
		t.Errorf("records = %+v, want one not-found record", records)
	}
}

func TestRenderStatic(t *testing.T) {
	e := newTestEngine(t)

	out, err := e.RenderStatic(context.Background(), "/blog/two/")
	if err != nil {
		t.Fatalf("RenderStatic error: %v", err)
	}
	defer out.Close()

	html, err := io.ReadAll(out.HTML)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(html), "<h1>two</h1>") {
		t.Errorf("html = %s", html)
	}

	records, err := readPayload(out.Payload)
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if len(records) == 0 || records[0].Path != "/blog/two/" {
		t.Errorf("payload = %+v", records)
	}
}

func TestRenderStaticUnknownPath(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.RenderStatic(context.Background(), "/missing/"); err == nil {
		t.Error("expected error for a path no route serves")
	}
}

func TestSetRegistry(t *testing.T) {
	e := newTestEngine(t)

	loader, err := NewLoader(testPages())
	if err != nil {
		t.Fatal(err)
	}
	reg, err := router.Discover(context.Background(), loader)
	if err != nil {
		t.Fatal(err)
	}

	e.SetRegistry(reg)
	if e.Registry() != reg {
		t.Error("SetRegistry did not swap the registry")
	}
}

func TestRenderDataNotFound(t *testing.T) {
	loader, err := NewLoader(testPages(), WithExports(map[string]Exports{
		"./blog/[slug]/page.html": {
			Data: func(ctx context.Context, params router.Params) (any, error) {
				return nil, ErrNotFound
			},
		},
	}))
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	reg, err := router.Discover(context.Background(), loader)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	e := NewEngine(reg)

	var buf bytes.Buffer
	found, err := e.RenderDocument(context.Background(), &buf, "/blog/nope")
	if !found {
		t.Error("the route matched, found should be true")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLoaderComponentAsNotFound(t *testing.T) {
	components := testComponents()
	components["not-found.html"] = &fstest.MapFile{Data: []byte(`<h1>Lost: {{.Path}}</h1>`)}

	loader, err := NewLoader(testPages(), WithComponents(components, "*.html"),
		WithFuncs(map[string]any{"upper": strings.ToUpper}))
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	nf, err := loader.Component("not-found.html", nil)
	if err != nil {
		t.Fatalf("Component error: %v", err)
	}
	if _, err := loader.Component("missing.html", nil); err == nil {
		t.Error("expected error for an unknown component")
	}

	reg, err := router.Discover(context.Background(), loader)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	e := NewEngine(reg, WithNotFound(nf))

	var buf bytes.Buffer
	found, err := e.RenderDocument(context.Background(), &buf, "/nowhere")
	if err != nil || found {
		t.Fatalf("RenderDocument = %v, %v; want false, nil", found, err)
	}
	if got := buf.String(); got != "<h1>Lost: /nowhere</h1>" {
		t.Errorf("not-found document = %q", got)
	}
}
