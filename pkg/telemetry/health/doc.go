// Package health serves liveness, readiness and version endpoints.
//
// Liveness only says the process answers. Readiness runs every registered
// check concurrently, each under its own timeout, and answers 503 when any of
// them fails:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("store", svc.Ping)
//	mux.HandleFunc("GET /ready", checker.ReadinessHandler())
//
// A check is any func(context.Context) error, so store pings and file probes
// plug in without adapters.
package health
