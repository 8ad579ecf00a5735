// Package middleware provides HTTP middleware for cross-cutting concerns of
// the rule API.
//
// # Middleware Chain
//
// The server chains middleware in this order (outermost first):
//
//	handler = Recovery(RequestID(Logging(CORS(RateLimit(Metrics(mux))))))
//
//  1. RecoveryMiddleware: turn panics into 500 {"error": ...}
//  2. RequestIDMiddleware: accept or generate X-Request-ID
//  3. LoggingMiddleware: structured access log with the request ID
//  4. CORSMiddleware: CORS headers for paths under the configured prefix
//  5. RateLimitMiddleware: per-client token bucket, 429 when exhausted
//  6. MetricsMiddleware: count requests by mux pattern
//
// MetricsMiddleware must sit directly around the mux: the mux records the
// matched pattern on the request it receives, and middleware that replaces
// the request with WithContext would hide it.
package middleware
