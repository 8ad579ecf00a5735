// Package logging builds the process logger on log/slog.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	slog.SetDefault(logger)
//
// Every record logged with a context carrying a request ID gets a request_id
// attribute:
//
//	ctx = logging.WithRequestID(ctx, id)
//	logger.InfoContext(ctx, "Rule created")
//
// # Fact Redaction
//
// The evaluator logs the fact value it compared at debug level. Fact records
// often hold user data, so RedactFacts replaces those values with
// "[REDACTED]".
package logging
