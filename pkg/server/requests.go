package server

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/urlkit/pkg/pathnorm"
)

// logRequests writes one log record per request. 5xx responses log at
// error level and 4xx at warn.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		}
		if ip := clientIPFromRequest(r, s.trustedProxies); ip != nil {
			attrs = append(attrs, "client_ip", ip.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error("request", attrs...)
		case status >= http.StatusBadRequest:
			s.logger.Warn("request", attrs...)
		default:
			s.logger.Info("request", attrs...)
		}
	})
}

// canonicalPaths redirects non-canonical request paths with 308 and
// rejects unsafe ones with 400.
func (s *Server) canonicalPaths(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		result, err := pathnorm.Canonicalize(r.URL.EscapedPath())
		if err == nil && strings.ContainsRune(r.URL.Path, '\\') {
			// An escaped backslash (%5C) survives EscapedPath.
			err = pathnorm.ErrBackslashInPath
		}
		if err != nil {
			s.logger.Debug("rejected request path", "path", r.URL.EscapedPath(), "error", err)
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		if result.Changed {
			target := result.Path
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
