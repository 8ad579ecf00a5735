package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type observation struct {
	method, route string
	status        int
}

type fakeHTTPRecorder struct {
	observations []observation
}

func (f *fakeHTTPRecorder) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	f.observations = append(f.observations, observation{method, route, status})
}

func TestMetricsMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rules/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := &fakeHTTPRecorder{}
	handler := MetricsMiddleware(rec)(mux)

	for _, path := range []string{"/api/rules/abc", "/nowhere"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	want := []observation{
		{"GET", "GET /api/rules/{id}", http.StatusNotFound},
		{"GET", "unmatched", http.StatusNotFound},
	}
	if len(rec.observations) != len(want) {
		t.Fatalf("got %d observations, want %d", len(rec.observations), len(want))
	}
	for i := range want {
		if rec.observations[i] != want[i] {
			t.Errorf("observation %d = %+v, want %+v", i, rec.observations[i], want[i])
		}
	}
}
