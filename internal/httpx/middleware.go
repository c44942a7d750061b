// Package httpx holds small HTTP helpers shared by the transport layer.
package httpx

import (
	"log/slog"
	"net/http"
	"time"

	"employee-auth/internal/netutil"
	obsmw "employee-auth/internal/observability/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// LogRequests writes one access log line per request with the matched route,
// status and latency. Must run inside the chi router.
func LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", netutil.ClientIP(r),
			"user_agent", netutil.TruncateUserAgent(r.UserAgent()),
			"request_id", obsmw.RequestIDFromContext(r.Context()),
			"trace_id", obsmw.TraceIDFromContext(r.Context()),
		)
	})
}
