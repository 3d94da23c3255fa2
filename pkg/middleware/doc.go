// Package middleware provides observability middleware for folio servers.
//
// Both middlewares are plain func(http.Handler) http.Handler values and
// plug into chi or any net/http chain.
//
// # Route labels
//
// Metrics and spans are labelled by the matched route pattern, such as
// "/blog/[slug]", never by the raw request path. The handler records the
// pattern after matching:
//
//	middleware.SetRoute(r.Context(), m.Entry.Route)
//
// Requests that match no route are labelled "unmatched".
//
// # Prometheus Metrics
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Collected series:
//   - folio_http_requests_total{route,status}
//   - folio_http_request_duration_seconds{route}
//   - folio_http_response_bytes_total{route}
//   - folio_http_requests_in_flight
//
// # OpenTelemetry
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
package middleware
