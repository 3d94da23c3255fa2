package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func newTestRegistry() *prometheus.Registry { return prometheus.NewRegistry() }

func TestMetricsLabelsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetRoute(r.Context(), "/blog/[slug]")
		w.Write([]byte("hello"))
	}))

	for _, p := range []string{"/blog/one", "/blog/two"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues("/blog/[slug]", "200")); got != 2 {
		t.Errorf("requests_total = %v, want 2", got)
	}
	if got := metricHistogramCount(t, m.requestDuration.WithLabelValues("/blog/[slug]")); got != 2 {
		t.Errorf("duration samples = %d, want 2", got)
	}
	if got := metricCounterValue(t, m.responseBytes.WithLabelValues("/blog/[slug]")); got != 10 {
		t.Errorf("response_bytes_total = %v, want 10", got)
	}
	if got := metricGaugeValue(t, m.inFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestMetricsUnmatchedStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))

	h := m.Handler(http.NotFoundHandler())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := metricCounterValue(t, m.requestsTotal.WithLabelValues(Unmatched, "404")); got != 1 {
		t.Errorf("requests_total{unmatched,404} = %v, want 1", got)
	}
}

func TestMetricsNamesAndOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(
		WithRegistry(reg),
		WithConstLabels(prometheus.Labels{"site": "test"}),
		WithBuckets([]float64{0.1, 1}),
	)
	m.Handler(http.NotFoundHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		names[f.GetName()] = f
	}
	for _, want := range []string{
		"folio_http_requests_total",
		"folio_http_request_duration_seconds",
		"folio_http_response_bytes_total",
		"folio_http_requests_in_flight",
	} {
		if names[want] == nil {
			t.Errorf("metric %s not registered", want)
		}
	}

	hist := names["folio_http_request_duration_seconds"].GetMetric()[0]
	if got := len(hist.GetHistogram().GetBucket()); got != 2 {
		t.Errorf("bucket count = %d, want 2", got)
	}
	var site string
	for _, lp := range hist.GetLabel() {
		if lp.GetName() == "site" {
			site = lp.GetValue()
		}
	}
	if site != "test" {
		t.Errorf("const label site = %q, want %q", site, "test")
	}
}

func TestDefaultMetricsConfig(t *testing.T) {
	config := defaultMetricsConfig()
	if config.Namespace != "folio" || config.Subsystem != "http" {
		t.Errorf("names = %q/%q, want folio/http", config.Namespace, config.Subsystem)
	}
	if config.Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should default to prometheus.DefaultRegisterer")
	}
	if len(config.Buckets) != len(prometheus.DefBuckets) {
		t.Error("Buckets should default to prometheus.DefBuckets")
	}
}
