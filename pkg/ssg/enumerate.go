package ssg

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/tdewolff/minify/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/folio/pkg/router"
	"github.com/vango-dev/folio/pkg/routepath"
)

const tracerName = "github.com/vango-dev/folio/pkg/ssg"

// Result is the outcome of enumeration.
type Result struct {
	// Paths holds every generated path once, in first-seen order.
	Paths []string

	// Tree holds the dynamic routes in registry order, each with its
	// generated paths in generator output order.
	Tree []RouteTree
}

// RouteTree lists the paths generated for one dynamic route.
type RouteTree struct {
	Route string
	File  string
	Paths []string
}

// Option configures enumeration and building.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	progress func(done, total int, path string)
	minifier *minify.M
}

// WithLogger sets the logger for warnings and progress.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracer overrides the tracer resolved from the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithProgress sets a callback invoked after each rendered path.
func WithProgress(fn func(done, total int, path string)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}

// Enumerate produces every concrete path the registry can serve.
//
// Static routes contribute their own pattern. Every dynamic route must
// declare a generator; all generators run concurrently and are joined
// before any path is filled. A missing generator, a failing generator or
// a malformed binding record aborts the whole enumeration.
func Enumerate(ctx context.Context, reg *router.Registry, opts ...Option) (*Result, error) {
	o := applyOptions(opts)

	ctx, span := o.tracer.Start(ctx, "ssg.enumerate")
	defer span.End()

	entries := reg.Entries()

	for _, e := range entries {
		if e.Dynamic() && e.Module.StaticParams == nil {
			err := &MissingGeneratorError{Route: e.Route, File: e.PagePath}
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if !e.Dynamic() && e.Module.StaticParams != nil {
			o.logger.Warn("static route declares a static-parameter generator; ignored",
				"route", e.Route, "file", e.PagePath)
		}
	}

	records, err := generate(ctx, o, entries)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res := &Result{}
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			res.Paths = append(res.Paths, p)
		}
	}

	for i, e := range entries {
		if !e.Dynamic() {
			add(routepath.Static(e.Route))
			continue
		}

		tree := RouteTree{Route: e.Route, File: e.PagePath}
		inTree := make(map[string]bool)
		for j, rec := range records[i] {
			filled, err := Fill(e.Segments, rec)
			if err != nil {
				err := &BindingError{Route: e.Route, File: e.PagePath, Index: j, Err: err}
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			p := routepath.Static(filled)
			add(p)
			if !inTree[p] {
				inTree[p] = true
				tree.Paths = append(tree.Paths, p)
			}
			warnShadowed(o.logger, reg, e, p)
		}
		res.Tree = append(res.Tree, tree)
	}

	span.SetAttributes(
		attribute.Int("folio.routes", len(entries)),
		attribute.Int("folio.paths", len(res.Paths)),
	)
	o.logger.Debug("static paths enumerated", "routes", len(entries), "paths", len(res.Paths))
	return res, nil
}

// generate runs every dynamic route's generator concurrently. The result
// is indexed like entries; static routes get nil.
func generate(ctx context.Context, o options, entries []*router.RouteEntry) ([][]router.Params, error) {
	records := make([][]router.Params, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		if !e.Dynamic() {
			continue
		}
		g.Go(func() error {
			spanCtx, span := o.tracer.Start(gctx, "ssg.generate",
				trace.WithAttributes(
					attribute.String("folio.route", e.Route),
					attribute.String("folio.file", e.PagePath),
				),
			)
			defer span.End()

			recs, err := e.Module.StaticParams(spanCtx)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return &GeneratorError{Route: e.Route, File: e.PagePath, Err: err}
			}
			span.SetAttributes(attribute.Int("folio.records", len(recs)))
			records[i] = recs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// warnShadowed logs generated paths that another route would serve.
func warnShadowed(logger *slog.Logger, reg *router.Registry, e *router.RouteEntry, p string) {
	m, ok := reg.Match(p)
	if ok && m.Entry != e {
		logger.Warn("generated path is served by another route",
			"path", p, "route", e.Route, "served_by", m.Entry.Route)
	}
}

// Fill substitutes a binding record into a parsed pattern. Dynamic
// segments take one value; catch-all segments take a non-empty sequence,
// joined with "/". Every value must be a usable path segment: non-empty,
// without "/", and neither "." nor "..". Every name in the record must
// belong to the pattern.
func Fill(segments []router.Segment, rec router.Params) (string, error) {
	if len(segments) == 0 {
		return "/", nil
	}

	var sb strings.Builder
	used := make(map[string]bool, len(rec))

	for _, s := range segments {
		sb.WriteString("/")
		if s.Kind == router.SegmentLiteral {
			sb.WriteString(s.Value)
			continue
		}

		v, ok := rec[s.Value]
		if !ok {
			return "", fmt.Errorf("missing value for %s", s.Token())
		}
		used[s.Value] = true

		switch s.Kind {
		case router.SegmentDynamic:
			if v.IsCatchAll() {
				return "", fmt.Errorf("%s takes a single value, got a sequence", s.Token())
			}
			value := v.String()
			if err := checkSegment(s, value); err != nil {
				return "", err
			}
			sb.WriteString(value)

		case router.SegmentCatchAll:
			if !v.IsCatchAll() {
				return "", fmt.Errorf("%s takes a sequence, got a single value", s.Token())
			}
			values := v.Strings()
			if len(values) == 0 {
				return "", fmt.Errorf("empty value for %s", s.Token())
			}
			for _, value := range values {
				if err := checkSegment(s, value); err != nil {
					return "", err
				}
			}
			sb.WriteString(strings.Join(values, "/"))
		}
	}

	if len(used) != len(rec) {
		var extra []string
		for name := range rec {
			if !used[name] {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		return "", fmt.Errorf("unknown parameters %s", strings.Join(extra, ", "))
	}

	return sb.String(), nil
}

// checkSegment rejects values that would not survive as one path
// segment. Dot segments collapse when the path becomes a file name.
func checkSegment(s router.Segment, value string) error {
	switch {
	case value == "":
		return fmt.Errorf("empty value for %s", s.Token())
	case strings.Contains(value, "/"):
		return fmt.Errorf("value %q for %s contains \"/\"", value, s.Token())
	case value == "." || value == "..":
		return fmt.Errorf("value %q for %s is a dot segment", value, s.Token())
	}
	return nil
}

// generated reports whether p was enumerated.
func (r *Result) generated(p string) bool {
	for _, q := range r.Paths {
		if q == p {
			return true
		}
	}
	return false
}
