package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder receives one observation per served request.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// MetricsMiddleware records each request under the mux pattern that served it,
// or "unmatched" when no pattern matched.
func MetricsMiddleware(recorder HTTPRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			recorder.RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
