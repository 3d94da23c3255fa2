package middleware

import (
	"context"
	"net/http"
	"sync/atomic"
)

// Unmatched labels requests that reached no route.
const Unmatched = "unmatched"

// routeHolder carries the matched route pattern from the handler back out
// to the middleware that wrapped it.
type routeHolder struct {
	route atomic.Pointer[string]
}

type routeKey struct{}

// WithRouteHolder returns ctx carrying an empty route holder, or ctx
// itself when one is already present.
func WithRouteHolder(ctx context.Context) context.Context {
	if _, ok := ctx.Value(routeKey{}).(*routeHolder); ok {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, &routeHolder{})
}

// SetRoute records the matched route pattern for the request carried by
// ctx. It is a no-op without a holder.
func SetRoute(ctx context.Context, route string) {
	if h, ok := ctx.Value(routeKey{}).(*routeHolder); ok {
		h.route.Store(&route)
	}
}

// Route returns the route pattern recorded for ctx, or Unmatched.
func Route(ctx context.Context) string {
	if h, ok := ctx.Value(routeKey{}).(*routeHolder); ok {
		if r := h.route.Load(); r != nil {
			return *r
		}
	}
	return Unmatched
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// holdRoute makes sure the request carries a route holder.
func holdRoute(r *http.Request) *http.Request {
	ctx := WithRouteHolder(r.Context())
	if ctx == r.Context() {
		return r
	}
	return r.WithContext(ctx)
}
