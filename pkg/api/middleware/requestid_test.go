package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"mercator-hq/verdict/pkg/telemetry/logging"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "generated when absent", header: ""},
		{name: "client id kept", header: "client-123", wantSame: true},
		{name: "oversized id replaced", header: strings.Repeat("x", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = logging.GetRequestID(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := httptest.NewRecorder()
			RequestIDMiddleware(handler).ServeHTTP(w, req)

			got := w.Header().Get(RequestIDHeader)
			if got != fromCtx {
				t.Errorf("header %q and context %q differ", got, fromCtx)
			}
			if tt.wantSame {
				if got != tt.header {
					t.Errorf("request ID = %q, want %q", got, tt.header)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("generated request ID %q is not a UUID: %v", got, err)
			}
		})
	}
}
