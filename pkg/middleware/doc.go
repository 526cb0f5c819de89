// Package middleware provides observability middleware for the urlkit
// HTTP service.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus metrics middleware and parse-outcome recorders
//
// Both are plain func(http.Handler) http.Handler values and are meant to
// be installed on a chi router, whose route patterns they use for span
// names and metric labels.
//
// # OpenTelemetry Middleware
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("urlkit"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// Handlers reach the request span with SpanFromContext(r.Context()).
//
// # Prometheus Metrics
//
//   - urlkit_requests_total: Requests by route, method and status
//   - urlkit_request_duration_seconds: Request duration histogram
//   - urlkit_parses_total: URL parses by grammar kind and result
//   - urlkit_errors_total: Error responses by error code
//   - urlkit_search_params_pairs: Pairs per parsed query string
//
//	r.Use(middleware.Prometheus())
//	r.Handle("/metrics", promhttp.Handler())
package middleware
