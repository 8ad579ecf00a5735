package logging

import "log/slog"

// Redacted replaces hidden attribute values.
const Redacted = "[REDACTED]"

// factKeys are the attributes that carry fact values.
var factKeys = map[string]bool{
	"actual":    true,
	"user_data": true,
	"facts":     true,
}

func redactFacts(groups []string, a slog.Attr) slog.Attr {
	if factKeys[a.Key] {
		return slog.String(a.Key, Redacted)
	}
	return a
}
