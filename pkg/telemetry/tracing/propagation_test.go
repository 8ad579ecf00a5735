package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func attr(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestHTTPMiddleware(t *testing.T) {
	_, rec := newRecordingTracer(t, SamplerAlways)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/evaluate", func(w http.ResponseWriter, r *http.Request) {
		if !trace.SpanContextFromContext(r.Context()).IsValid() {
			t.Error("handler context carries no span")
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	handler := HTTPMiddleware(mux)

	tests := []struct {
		name       string
		method     string
		path       string
		wantName   string
		wantRoute  string
		wantStatus int
		wantError  bool
	}{
		{"matched route", http.MethodPost, "/api/evaluate", "POST /api/evaluate", "POST /api/evaluate", 200, false},
		{"unmatched route", http.MethodGet, "/nope", "HTTP GET", "unmatched", 404, false},
		{"server error", http.MethodGet, "/boom", "GET /boom", "GET /boom", 500, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(rec.Ended())

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Header().Get(TraceIDHeader) == "" {
				t.Error("missing trace ID header")
			}

			spans := rec.Ended()
			if len(spans) != before+1 {
				t.Fatalf("recorded %d new spans, want 1", len(spans)-before)
			}
			span := spans[len(spans)-1]

			if span.Name() != tt.wantName {
				t.Errorf("span name = %q, want %q", span.Name(), tt.wantName)
			}
			if span.SpanKind() != trace.SpanKindServer {
				t.Errorf("span kind = %v", span.SpanKind())
			}
			if v, _ := attr(span.Attributes(), AttrHTTPRoute); v.AsString() != tt.wantRoute {
				t.Errorf("route = %q, want %q", v.AsString(), tt.wantRoute)
			}
			if v, _ := attr(span.Attributes(), AttrHTTPStatus); v.AsInt64() != int64(tt.wantStatus) {
				t.Errorf("status = %d, want %d", v.AsInt64(), tt.wantStatus)
			}
			if got := span.Status().Code == codes.Error; got != tt.wantError {
				t.Errorf("error status = %v, want %v", got, tt.wantError)
			}
			if span.SpanContext().TraceID().String() != w.Header().Get(TraceIDHeader) {
				t.Error("trace ID header does not match the span")
			}
		})
	}
}

func TestHTTPMiddleware_ContinuesIncomingTrace(t *testing.T) {
	_, rec := newRecordingTracer(t, SamplerNever)

	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// A sampled parent keeps the trace sampled even under the never sampler.
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	if got := spans[0].SpanContext().TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace ID = %s", got)
	}
	if got := spans[0].Parent().SpanID().String(); got != "00f067aa0ba902b7" {
		t.Errorf("parent span ID = %s", got)
	}
}

func TestInjectExtract(t *testing.T) {
	tracer, _ := newRecordingTracer(t, SamplerAlways)

	ctx, span := tracer.Start(context.Background(), "outbound")
	defer span.End()

	headers := http.Header{}
	Inject(ctx, headers)
	if headers.Get("traceparent") == "" {
		t.Fatal("Inject() wrote no traceparent header")
	}

	extracted := Extract(context.Background(), headers)
	if got := trace.SpanContextFromContext(extracted).TraceID(); got != span.SpanContext().TraceID() {
		t.Errorf("extracted trace ID = %s, want %s", got, span.SpanContext().TraceID())
	}
}
