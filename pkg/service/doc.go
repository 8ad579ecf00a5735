// Package service implements the rule operations exposed over HTTP and the
// CLI: create, combine, evaluate, and rule list management.
//
// The service owns the boundary contract. It validates inputs with the exact
// messages clients depend on, stores created and combined rules, and turns
// engine errors into errors the transport can map to status codes:
//
//	svc := service.New(store.NewMemoryStore(), service.Options{}, collector, logger)
//	rec, err := svc.Create(ctx, "age > 30 AND department = 'Sales'")
//
// Errors carry a rule/errors kind. Failures that happen while deciding a tree
// against facts are additionally wrapped in *EvaluationError.
package service
