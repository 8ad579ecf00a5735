// Package server runs the verdict HTTP service.
//
// The server owns the route table and the middleware chain:
//
//	POST   /api/rules            create a rule
//	POST   /api/rules/combine    combine rules
//	POST   /api/rules/evaluate   evaluate a serialized tree against facts
//	GET    /api/rules            list stored rules
//	GET    /api/rules/{id}       fetch one rule
//	DELETE /api/rules/{id}       delete one rule
//	GET    /health               liveness
//	GET    /ready                readiness (store and rules file checks)
//	GET    /version              build information
//	GET    /metrics              Prometheus metrics, when enabled
//
// Responses are gzip compressed when the client accepts it and compression is
// enabled. Start blocks until its context is cancelled, then shuts down
// gracefully within the configured shutdown timeout. Signal handling belongs
// to the caller.
package server
