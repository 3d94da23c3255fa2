package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/vango-dev/folio/pkg/router"
)

// ErrNotFound is returned by a data loader when the matched parameters
// name nothing, e.g. a post slug that does not exist. Servers answer it
// with the not-found document.
var ErrNotFound = errors.New("render: not found")

// Engine renders matched routes as documents or component streams. It
// reads the current registry on every call; SetRegistry swaps in a new
// one without disturbing renders already in flight.
type Engine struct {
	reg      atomic.Pointer[router.Registry]
	notFound atomic.Pointer[component]
	logger   *slog.Logger
}

type component struct{ router.Component }

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithNotFound sets the component rendered for unmatched paths.
func WithNotFound(c router.Component) EngineOption {
	return func(e *Engine) {
		e.SetNotFound(c)
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine serving reg.
func NewEngine(reg *router.Registry, opts ...EngineOption) *Engine {
	e := &Engine{logger: slog.Default()}
	e.SetNotFound(nil)
	for _, opt := range opts {
		opt(e)
	}
	e.reg.Store(reg)
	return e
}

func defaultNotFound(ctx context.Context, w io.Writer, props router.Props) error {
	_, err := io.WriteString(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>Not found</title></head><body><p>Not found</p></body></html>")
	return err
}

// Registry returns the registry currently served.
func (e *Engine) Registry() *router.Registry {
	return e.reg.Load()
}

// SetRegistry replaces the registry served by later calls.
func (e *Engine) SetRegistry(reg *router.Registry) {
	e.reg.Store(reg)
}

// SetNotFound replaces the not-found component. Nil restores the
// built-in document.
func (e *Engine) SetNotFound(c router.Component) {
	if c == nil {
		c = router.ComponentFunc(defaultNotFound)
	}
	e.notFound.Store(&component{c})
}

// Resolve matches pathname against the current registry.
func (e *Engine) Resolve(pathname string) (*router.MatchResult, bool) {
	return e.reg.Load().Match(pathname)
}

// RenderDocument writes the document of pathname. A false result means
// the path matched no route and the not-found document was written.
func (e *Engine) RenderDocument(ctx context.Context, w io.Writer, pathname string) (bool, error) {
	m, ok := e.Resolve(pathname)
	if !ok {
		return false, e.RenderNotFound(WithRequest(ctx, Request{Path: pathname}), w)
	}
	return true, e.renderMatch(ctx, w, pathname, m)
}

func (e *Engine) renderMatch(ctx context.Context, w io.Writer, pathname string, m *router.MatchResult) error {
	ctx = WithRequest(ctx, requestFor(pathname, m))
	return router.Compose(m).Render(ctx, w)
}

// RenderNotFound writes the not-found document.
func (e *Engine) RenderNotFound(ctx context.Context, w io.Writer) error {
	return e.notFound.Load().Render(ctx, w, router.Props{})
}

// RenderPayload writes the component stream of pathname. A false result
// means the path matched no route; the stream then holds a single
// not-found record.
func (e *Engine) RenderPayload(ctx context.Context, w io.Writer, pathname string) (bool, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	m, ok := e.Resolve(pathname)
	if !ok {
		return false, enc.Encode(Record{Type: RecordNotFound, Path: pathname})
	}
	return true, e.writePayload(ctx, enc, pathname, m)
}

func (e *Engine) writePayload(ctx context.Context, enc *json.Encoder, pathname string, m *router.MatchResult) error {
	ctx = WithRequest(ctx, requestFor(pathname, m))

	if err := enc.Encode(Record{
		Type:   RecordRoute,
		Route:  m.Entry.Route,
		Path:   pathname,
		Params: m.Params,
	}); err != nil {
		return err
	}

	for i, l := range m.Entry.Layouts {
		if err := enc.Encode(Record{Type: RecordLayout, ID: l.ID, Depth: i}); err != nil {
			return err
		}
	}

	var page bytes.Buffer
	if err := m.Entry.Module.Component.Render(ctx, &page, router.Props{Params: m.Params}); err != nil {
		return err
	}
	return enc.Encode(Record{
		Type:  RecordPage,
		ID:    m.Entry.PagePath,
		Depth: len(m.Entry.Layouts),
		HTML:  page.String(),
	})
}

// Static holds the two outputs of a prerendered path.
type Static struct {
	HTML    io.ReadCloser
	Payload io.ReadCloser
}

// Close closes both outputs, stopping any render still producing them.
func (s *Static) Close() error {
	err := s.HTML.Close()
	if perr := s.Payload.Close(); err == nil {
		err = perr
	}
	return err
}

// RenderStatic renders pathname for a static build. Each output is
// produced by its own goroutine into a pipe, so the caller can stream
// them one after the other without buffering either.
func (e *Engine) RenderStatic(ctx context.Context, pathname string) (*Static, error) {
	m, ok := e.Resolve(pathname)
	if !ok {
		return nil, fmt.Errorf("no route matches %s", pathname)
	}

	htmlR, htmlW := io.Pipe()
	payloadR, payloadW := io.Pipe()

	go func() {
		err := e.renderMatch(ctx, htmlW, pathname, m)
		if err != nil {
			e.logger.Debug("static render failed", "path", pathname, "route", m.Entry.Route, "error", err)
		}
		htmlW.CloseWithError(err)
	}()
	go func() {
		enc := json.NewEncoder(payloadW)
		enc.SetEscapeHTML(false)
		payloadW.CloseWithError(e.writePayload(ctx, enc, pathname, m))
	}()

	return &Static{HTML: htmlR, Payload: payloadR}, nil
}
