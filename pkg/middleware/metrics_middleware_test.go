package middleware

import (
	"net/http"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusMiddleware_RecordsRoutesAndStatus(t *testing.T) {
	t.Run("success is labeled by route pattern", func(t *testing.T) {
		resetGlobalMetricsForTest()
		reg := prometheus.NewRegistry()
		r := newTestRouter(Prometheus(WithRegistry(reg)))

		serve(r, http.MethodGet, "/items/1")
		serve(r, http.MethodGet, "/items/2")

		c := GetMetrics()
		if c == nil {
			t.Fatal("expected GetMetrics to return collector after initialization")
		}
		if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/items/{id}", "GET", "200")); got != 2 {
			t.Fatalf("requests_total(/items/{id},200)=%v, want 2", got)
		}
		if got := metricHistogramCount(t, c.requestDuration.WithLabelValues("/items/{id}")); got != 2 {
			t.Fatalf("request_duration_seconds count=%v, want 2", got)
		}
	})

	t.Run("error status is recorded", func(t *testing.T) {
		resetGlobalMetricsForTest()
		reg := prometheus.NewRegistry()
		r := newTestRouter(Prometheus(WithRegistry(reg)))

		serve(r, http.MethodGet, "/fail")
		serve(r, http.MethodGet, "/healthz")

		c := GetMetrics()
		if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/fail", "GET", "500")); got != 1 {
			t.Fatalf("requests_total(/fail,500)=%v, want 1", got)
		}
		if got := metricCounterValue(t, c.requestsTotal.WithLabelValues("/healthz", "GET", "204")); got != 1 {
			t.Fatalf("requests_total(/healthz,204)=%v, want 1", got)
		}
	})
}

func TestPrometheusMiddleware_UnmatchedRoute(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	r := newTestRouter(Prometheus(WithRegistry(reg)))

	serve(r, http.MethodGet, "/no/such/route")

	c := GetMetrics()
	if got := metricCounterValue(t, c.requestsTotal.WithLabelValues(unmatchedRoute, "GET", "404")); got != 1 {
		t.Fatalf("requests_total(unmatched,404)=%v, want 1", got)
	}
}

func TestPrometheusMiddleware_Namespace(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	r := newTestRouter(Prometheus(WithRegistry(reg), WithNamespace("edge"), WithSubsystem("api")))
	serve(r, http.MethodGet, "/items/1")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if !strings.HasPrefix(f.GetName(), "edge_api_") {
			t.Errorf("metric %q lacks namespace prefix", f.GetName())
		}
		if f.GetName() == "edge_api_requests_total" {
			found = true
		}
	}
	if !found {
		t.Fatal("edge_api_requests_total not registered")
	}
}

func TestMetricsRecordFunctions_WithInitializedMetrics(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	_ = Prometheus(WithRegistry(reg)) // initialize global metrics
	c := GetMetrics()
	if c == nil {
		t.Fatal("expected GetMetrics to return collector after initialization")
	}

	RecordParse("absolute", true)
	RecordParse("absolute", true)
	RecordParse("invalid", false)
	RecordError("U001")
	RecordSearchParams(3)

	if got := metricCounterValue(t, c.parsesTotal.WithLabelValues("absolute", "ok")); got != 2 {
		t.Fatalf("parses_total(absolute,ok)=%v, want 2", got)
	}
	if got := metricCounterValue(t, c.parsesTotal.WithLabelValues("invalid", "error")); got != 1 {
		t.Fatalf("parses_total(invalid,error)=%v, want 1", got)
	}
	if got := metricCounterValue(t, c.errorsTotal.WithLabelValues("U001")); got != 1 {
		t.Fatalf("errors_total(U001)=%v, want 1", got)
	}
	if got := metricHistogramCount(t, c.paramPairs); got != 1 {
		t.Fatalf("search_params_pairs count=%v, want 1", got)
	}
}

func TestMetricsRecordFunctions_WithoutInitialization(t *testing.T) {
	resetGlobalMetricsForTest()

	// Must not panic.
	RecordParse("relative", true)
	RecordError("U002")
	RecordSearchParams(1)

	if GetMetrics() != nil {
		t.Fatal("expected GetMetrics to return nil before initialization")
	}
}
