package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/verdict/pkg/telemetry/logging"
)

// RecoveryMiddleware recovers from panics in handlers, logs them with the
// stack trace and answers 500 {"error": <panic value>}. http.ErrAbortHandler
// is re-raised so the server can abort the connection as usual.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.ErrorContext(r.Context(), fmt.Sprintf("Error: %v", rec),
					"request_id", logging.GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				writeError(w, http.StatusInternalServerError, fmt.Sprint(rec))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
