package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration. All validation errors are
// collected and returned together as a ValidationError.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateRules(&cfg.Rules)...)
	errs = append(errs, validateEngine(&cfg.Engine)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{Field: "server.listen_address", Message: "listen address is required"})
	} else if _, port, err := net.SplitHostPort(cfg.ListenAddress); err != nil || port == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: must be host:port", cfg.ListenAddress),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "must not be negative"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "must not be negative"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.idle_timeout", Message: "must not be negative"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "must not be negative"})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "must not be negative"})
	}
	if cfg.MaxBodyBytes <= 0 {
		errs = append(errs, FieldError{Field: "server.max_body_bytes", Message: "must be positive"})
	}

	if cfg.CORS.Enabled {
		if !strings.HasPrefix(cfg.CORS.PathPrefix, "/") {
			errs = append(errs, FieldError{Field: "server.cors.path_prefix", Message: "must start with /"})
		}
		for i, origin := range cfg.CORS.AllowedOrigins {
			if origin == "*" {
				continue
			}
			u, err := url.Parse(origin)
			if err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("server.cors.allowed_origins[%d]", i),
					Message: fmt.Sprintf("invalid origin %q: must be scheme://host[:port] or *", origin),
				})
			}
		}
		if cfg.CORS.MaxAge < 0 {
			errs = append(errs, FieldError{Field: "server.cors.max_age", Message: "must not be negative"})
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, FieldError{Field: "server.rate_limit.requests_per_second", Message: "must be positive"})
		}
		if cfg.RateLimit.Burst < 1 {
			errs = append(errs, FieldError{Field: "server.rate_limit.burst", Message: "must be at least 1"})
		}
	}

	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateTLS(&cfg.TLS)...)

	return errs
}

func validateAuth(cfg *AuthConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	var errs []FieldError

	if !strings.HasPrefix(cfg.PathPrefix, "/") {
		errs = append(errs, FieldError{Field: "server.auth.path_prefix", Message: "must start with /"})
	}
	if len(cfg.Keys) == 0 {
		errs = append(errs, FieldError{Field: "server.auth.keys", Message: "at least one key is required when auth is enabled"})
	}
	names := make(map[string]bool, len(cfg.Keys))
	for i, k := range cfg.Keys {
		field := fmt.Sprintf("server.auth.keys[%d]", i)
		if k.Name == "" {
			errs = append(errs, FieldError{Field: field + ".name", Message: "name is required"})
		} else if names[k.Name] {
			errs = append(errs, FieldError{Field: field + ".name", Message: fmt.Sprintf("duplicate key name %q", k.Name)})
		}
		names[k.Name] = true
		if (k.Key == "") == (k.KeyEnv == "") {
			errs = append(errs, FieldError{Field: field, Message: "exactly one of key and key_env is required"})
		}
	}

	return errs
}

func validateTLS(cfg *TLSConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	var errs []FieldError

	if cfg.CertFile == "" {
		errs = append(errs, FieldError{Field: "server.tls.cert_file", Message: "cert_file is required when TLS is enabled"})
	}
	if cfg.KeyFile == "" {
		errs = append(errs, FieldError{Field: "server.tls.key_file", Message: "key_file is required when TLS is enabled"})
	}
	if cfg.MinVersion != "1.2" && cfg.MinVersion != "1.3" {
		errs = append(errs, FieldError{
			Field:   "server.tls.min_version",
			Message: fmt.Sprintf("invalid version %q: must be 1.2 or 1.3", cfg.MinVersion),
		})
	}
	if cfg.ReloadInterval < 0 {
		errs = append(errs, FieldError{Field: "server.tls.reload_interval", Message: "must not be negative"})
	}
	if cfg.ClientCAFile != "" {
		switch cfg.ClientAuth {
		case "require", "request", "verify_if_given":
		default:
			errs = append(errs, FieldError{
				Field:   "server.tls.client_auth",
				Message: fmt.Sprintf("invalid client auth %q: must be require, request, or verify_if_given", cfg.ClientAuth),
			})
		}
	}

	return errs
}

func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "storage.sqlite.path", Message: "path is required for sqlite backend"})
		}
		if cfg.SQLite.Driver != "sqlite" && cfg.SQLite.Driver != "sqlite3" {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.driver",
				Message: fmt.Sprintf("invalid driver %q: must be sqlite or sqlite3", cfg.SQLite.Driver),
			})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{Field: "storage.sqlite.busy_timeout", Message: "must not be negative"})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend %q: must be memory or sqlite", cfg.Backend),
		})
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{Field: "storage.retention.days", Message: "must not be negative"})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{Field: "storage.retention.max_records", Message: "must not be negative"})
	}
	if cfg.Retention.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Retention.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "storage.retention.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Retention.PruneSchedule, err),
			})
		}
	}

	return errs
}

func validateRules(cfg *RulesConfig) []FieldError {
	var errs []FieldError

	if cfg.Watch && cfg.File == "" {
		errs = append(errs, FieldError{Field: "rules.watch", Message: "watch requires rules.file"})
	}
	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{Field: "rules.debounce", Message: "must not be negative"})
	}

	return errs
}

func validateEngine(cfg *EngineConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxDecodeDepth < 1 {
		errs = append(errs, FieldError{Field: "engine.max_decode_depth", Message: "must be at least 1"})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q: must be debug, info, warn, or error", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q: must be json or text", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "must start with /"})
	}

	if t := cfg.Tracing; t.Enabled {
		switch t.Sampler {
		case "always", "never":
		case "ratio":
			if t.SampleRatio < 0 || t.SampleRatio > 1 {
				errs = append(errs, FieldError{
					Field:   "telemetry.tracing.sample_ratio",
					Message: fmt.Sprintf("must be between 0.0 and 1.0, got %g", t.SampleRatio),
				})
			}
		default:
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: fmt.Sprintf("invalid sampler %q: must be always, never, or ratio", t.Sampler),
			})
		}
		if _, _, err := net.SplitHostPort(t.Endpoint); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: fmt.Sprintf("invalid endpoint %q: %v", t.Endpoint, err),
			})
		}
		if t.Timeout < 0 {
			errs = append(errs, FieldError{Field: "telemetry.tracing.timeout", Message: "must not be negative"})
		}
	}

	return errs
}
