package ssg

import (
	"context"
	"io"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/folio/pkg/render"
)

// NotFoundFile is the output name of the not-found document.
const NotFoundFile = "404.html"

// Renderer produces the static outputs of a path.
type Renderer interface {
	// RenderStatic returns the document and the component stream of p.
	// The caller must close both readers.
	RenderStatic(ctx context.Context, p string) (*render.Static, error)

	// RenderNotFound writes the not-found document.
	RenderNotFound(ctx context.Context, w io.Writer) error
}

// Stats summarizes a build.
type Stats struct {
	Pages    int
	Files    int
	Duration time.Duration
}

// BuildOption configures Build.
type BuildOption = Option

// WithMinify minifies HTML documents on their way to the sink.
func WithMinify(enabled bool) Option {
	return func(o *options) {
		if !enabled {
			o.minifier = nil
			return
		}
		m := minify.New()
		m.AddFunc("text/html", html.Minify)
		o.minifier = m
	}
}

// Build renders every path in res, one render-and-write cycle at a time,
// and streams both outputs of each path into sink. It also writes the
// not-found document. The first render or write failure aborts the build.
func Build(ctx context.Context, r Renderer, res *Result, sink Sink, opts ...Option) (*Stats, error) {
	o := applyOptions(opts)
	start := time.Now()

	ctx, span := o.tracer.Start(ctx, "ssg.build",
		trace.WithAttributes(attribute.Int("folio.paths", len(res.Paths))))
	defer span.End()

	stats := &Stats{}
	for i, p := range res.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := buildPath(ctx, o, r, sink, p); err != nil {
			err = &RenderError{Path: p, Err: err}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		stats.Pages++
		stats.Files += 2
		if o.progress != nil {
			o.progress(i+1, len(res.Paths), p)
		}
		o.logger.Debug("rendered", "path", p)
	}

	if err := writeNotFound(ctx, o, r, sink); err != nil {
		err = &RenderError{Path: NotFoundFile, Err: err}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	stats.Files++

	stats.Duration = time.Since(start)
	return stats, nil
}

func buildPath(ctx context.Context, o options, r Renderer, sink Sink, p string) error {
	out, err := r.RenderStatic(ctx, p)
	if err != nil {
		return err
	}
	defer out.Close()

	var doc io.Reader = out.HTML
	if o.minifier != nil {
		doc = o.minifier.Reader("text/html", doc)
	}
	if err := sink.Write(ctx, HTMLFile(p), render.HTMLContentType, doc); err != nil {
		return err
	}
	return sink.Write(ctx, PayloadFile(p), render.PayloadContentType, out.Payload)
}

func writeNotFound(ctx context.Context, o options, r Renderer, sink Sink) error {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(r.RenderNotFound(ctx, pw))
	}()
	defer pr.Close()

	var doc io.Reader = pr
	if o.minifier != nil {
		doc = o.minifier.Reader("text/html", doc)
	}
	return sink.Write(ctx, NotFoundFile, render.HTMLContentType, doc)
}
