package ssg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/folio/pkg/render"
)

// memSink records every write in order.
type memSink struct {
	mu    sync.Mutex
	names []string
	files map[string]string
	types map[string]string
	fail  string
}

func newMemSink() *memSink {
	return &memSink{files: make(map[string]string), types: make(map[string]string)}
}

func (s *memSink) Write(ctx context.Context, name, contentType string, r io.Reader) error {
	if name == s.fail {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	s.files[name] = string(data)
	s.types[name] = contentType
	return nil
}

// stubRenderer renders "<html>p</html>" and a one-line payload for every path.
type stubRenderer struct {
	fail string
}

func (r *stubRenderer) RenderStatic(ctx context.Context, p string) (*render.Static, error) {
	if p == r.fail {
		return nil, errors.New("template exploded")
	}
	return &render.Static{
		HTML:    io.NopCloser(strings.NewReader("<html>\n  <body> " + p + " </body>\n</html>")),
		Payload: io.NopCloser(strings.NewReader(`{"type":"page","path":"` + p + `"}` + "\n")),
	}, nil
}

func (r *stubRenderer) RenderNotFound(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, "<p>Not found</p>")
	return err
}

func TestHTMLFile(t *testing.T) {
	tests := []struct {
		path    string
		html    string
		payload string
	}{
		{"/", "index.html", "_.rsc"},
		{"/blog/", "blog/index.html", "blog/_.rsc"},
		{"/blog/one/", "blog/one/index.html", "blog/one/_.rsc"},
		{"/feed", "feed.html", "feed_.rsc"},
	}

	for _, tt := range tests {
		if got := HTMLFile(tt.path); got != tt.html {
			t.Errorf("HTMLFile(%q) = %q, want %q", tt.path, got, tt.html)
		}
		if got := PayloadFile(tt.path); got != tt.payload {
			t.Errorf("PayloadFile(%q) = %q, want %q", tt.path, got, tt.payload)
		}
	}
}

func TestBuild(t *testing.T) {
	sink := newMemSink()
	res := &Result{Paths: []string{"/", "/blog/one/"}}

	var progress []string
	stats, err := Build(context.Background(), &stubRenderer{}, res, sink,
		WithProgress(func(done, total int, p string) {
			progress = append(progress, p)
		}),
	)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	wantNames := []string{"index.html", "_.rsc", "blog/one/index.html", "blog/one/_.rsc", NotFoundFile}
	if strings.Join(sink.names, ",") != strings.Join(wantNames, ",") {
		t.Errorf("writes = %v, want %v", sink.names, wantNames)
	}
	if sink.types["blog/one/_.rsc"] != render.PayloadContentType {
		t.Errorf("payload content type = %q", sink.types["blog/one/_.rsc"])
	}
	if sink.types["index.html"] != render.HTMLContentType {
		t.Errorf("html content type = %q", sink.types["index.html"])
	}
	if stats.Pages != 2 || stats.Files != 5 {
		t.Errorf("stats = %+v", stats)
	}
	if len(progress) != 2 {
		t.Errorf("progress calls = %v", progress)
	}
}

func TestBuildMinify(t *testing.T) {
	sink := newMemSink()
	res := &Result{Paths: []string{"/"}}

	if _, err := Build(context.Background(), &stubRenderer{}, res, sink, WithMinify(true)); err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if strings.Contains(sink.files["index.html"], "\n") {
		t.Errorf("html not minified: %q", sink.files["index.html"])
	}
	if !strings.HasSuffix(sink.files["_.rsc"], "\n") {
		t.Error("payload should not be minified")
	}
}

func TestBuildRenderFailureAborts(t *testing.T) {
	sink := newMemSink()
	res := &Result{Paths: []string{"/", "/broken/", "/later/"}}

	_, err := Build(context.Background(), &stubRenderer{fail: "/broken/"}, res, sink)

	var re *RenderError
	if !errors.As(err, &re) || re.Path != "/broken/" {
		t.Fatalf("error = %v, want *RenderError for /broken/", err)
	}
	for _, name := range sink.names {
		if strings.HasPrefix(name, "later/") {
			t.Error("build continued after a failure")
		}
	}
}

func TestBuildWriteFailureAborts(t *testing.T) {
	sink := newMemSink()
	sink.fail = "blog/_.rsc"
	res := &Result{Paths: []string{"/blog/"}}

	if _, err := Build(context.Background(), &stubRenderer{}, res, sink); err == nil {
		t.Fatal("expected write failure")
	}
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir)

	if err := sink.Write(context.Background(), "blog/one/index.html", render.HTMLContentType, strings.NewReader("<p>one</p>")); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "blog", "one", "index.html"))
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "<p>one</p>" {
		t.Errorf("content = %q", data)
	}

	if err := sink.Write(context.Background(), "../escape.html", render.HTMLContentType, strings.NewReader("x")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.html")); err != nil {
		t.Errorf("relative name should stay inside the root: %v", err)
	}
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, in.Body); err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, buf.String())
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	client := &fakeS3{}
	sink := NewS3Sink(client, "site", "preview").WithCacheControl("max-age=60")

	err := sink.Write(context.Background(), "blog/one/_.rsc", render.PayloadContentType, strings.NewReader(`{"type":"page"}`))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	if len(client.inputs) != 1 {
		t.Fatalf("PutObject calls = %d, want 1", len(client.inputs))
	}
	in := client.inputs[0]
	if *in.Bucket != "site" || *in.Key != "preview/blog/one/_.rsc" {
		t.Errorf("bucket/key = %s/%s", *in.Bucket, *in.Key)
	}
	if *in.ContentType != render.PayloadContentType || *in.CacheControl != "max-age=60" {
		t.Errorf("headers = %s, %s", *in.ContentType, *in.CacheControl)
	}
	if client.bodies[0] != `{"type":"page"}` {
		t.Errorf("body = %q", client.bodies[0])
	}
	if got := sink.String(); got != "s3://site/preview" {
		t.Errorf("String() = %q", got)
	}
}
