package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"mercator-hq/verdict/pkg/telemetry/logging"
)

// RequestIDHeader is the HTTP header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds client supplied IDs so they cannot bloat logs.
const maxRequestIDLength = 128

// RequestIDMiddleware takes the request ID from X-Request-ID, or generates a
// UUID when it is absent or too long, stores it in the context for logging and
// echoes it in the response headers.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), requestID)))
	})
}
