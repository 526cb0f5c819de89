// Package server exposes URL parsing, resolution and query-string
// handling as a JSON HTTP service.
//
// Routes:
//
//	GET  /healthz      liveness probe
//	POST /v1/parse     {"input": "...", "base": "..."}
//	POST /v1/resolve   {"base": "...", "relative": "..."}
//	POST /v1/params    {"query": "...", "sort": true, "locale": "de"}
//	GET  /v1/self      the URL of the request itself
//	GET  /metrics      Prometheus metrics, when enabled
//
// Errors are returned as {"error": {...}} with the error code, message
// and detail of the underlying failure.
//
// Request paths are canonicalized before routing: non-canonical paths get
// a 308 redirect and unsafe paths (backslashes, NUL bytes, bad escapes,
// ".." above the root) are rejected with 400.
package server
