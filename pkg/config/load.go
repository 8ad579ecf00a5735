package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VERDICT_"

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates it. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides, which always take precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// Load is LoadConfigWithEnvOverrides, except that a missing file yields the
// defaults when optional is true.
func Load(path string, optional bool) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err == nil || !optional || !errors.Is(err, fs.ErrNotExist) {
		return cfg, err
	}
	return finish(Default())
}

func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies VERDICT_SECTION_FIELD variables. A variable that
// does not parse as its field's type is an error.
func applyEnvOverrides(cfg *Config) error {
	e := &envReader{}

	// Server overrides
	e.str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	e.duration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	e.duration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	e.duration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	e.duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	e.integer("SERVER_MAX_HEADER_BYTES", &cfg.Server.MaxHeaderBytes)
	e.int64("SERVER_MAX_BODY_BYTES", &cfg.Server.MaxBodyBytes)
	e.boolean("SERVER_COMPRESSION", &cfg.Server.Compression)
	e.boolean("SERVER_CORS_ENABLED", &cfg.Server.CORS.Enabled)
	e.list("SERVER_CORS_ALLOWED_ORIGINS", &cfg.Server.CORS.AllowedOrigins)
	e.boolean("SERVER_RATE_LIMIT_ENABLED", &cfg.Server.RateLimit.Enabled)
	e.float("SERVER_RATE_LIMIT_REQUESTS_PER_SECOND", &cfg.Server.RateLimit.RequestsPerSecond)
	e.integer("SERVER_RATE_LIMIT_BURST", &cfg.Server.RateLimit.Burst)
	e.boolean("SERVER_AUTH_ENABLED", &cfg.Server.Auth.Enabled)
	e.boolean("SERVER_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	e.str("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	e.str("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)

	// Storage overrides
	e.str("STORAGE_BACKEND", &cfg.Storage.Backend)
	e.str("STORAGE_SQLITE_PATH", &cfg.Storage.SQLite.Path)
	e.str("STORAGE_SQLITE_DRIVER", &cfg.Storage.SQLite.Driver)
	e.boolean("STORAGE_SQLITE_WAL_MODE", &cfg.Storage.SQLite.WALMode)
	e.duration("STORAGE_SQLITE_BUSY_TIMEOUT", &cfg.Storage.SQLite.BusyTimeout)
	e.integer("STORAGE_RETENTION_DAYS", &cfg.Storage.Retention.Days)
	e.int64("STORAGE_RETENTION_MAX_RECORDS", &cfg.Storage.Retention.MaxRecords)
	e.str("STORAGE_RETENTION_PRUNE_SCHEDULE", &cfg.Storage.Retention.PruneSchedule)

	// Rules overrides
	e.str("RULES_FILE", &cfg.Rules.File)
	e.boolean("RULES_WATCH", &cfg.Rules.Watch)
	e.duration("RULES_DEBOUNCE", &cfg.Rules.Debounce)

	// Engine overrides
	e.integer("ENGINE_MAX_DECODE_DEPTH", &cfg.Engine.MaxDecodeDepth)
	e.boolean("ENGINE_LOG_DISCARDED", &cfg.Engine.LogDiscarded)

	// Telemetry overrides
	e.str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	e.str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	e.boolean("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	e.boolean("TELEMETRY_LOGGING_REDACT_FACTS", &cfg.Telemetry.Logging.RedactFacts)
	e.boolean("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	e.str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	e.boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	e.str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	e.float("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	e.str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)

	if len(e.errs) > 0 {
		return ValidationError{Errors: e.errs}
	}
	return nil
}

// envReader reads typed overrides and collects parse failures.
type envReader struct {
	errs []FieldError
}

func (e *envReader) lookup(name string) (string, string, bool) {
	key := EnvPrefix + name
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return key, "", false
	}
	return key, val, true
}

func (e *envReader) fail(key, kind, val string) {
	e.errs = append(e.errs, FieldError{Field: key, Message: fmt.Sprintf("invalid %s %q", kind, val)})
}

func (e *envReader) str(name string, dst *string) {
	if _, val, ok := e.lookup(name); ok {
		*dst = val
	}
}

func (e *envReader) list(name string, dst *[]string) {
	if _, val, ok := e.lookup(name); ok {
		var out []string
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*dst = out
	}
}

func (e *envReader) boolean(name string, dst *bool) {
	if key, val, ok := e.lookup(name); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			e.fail(key, "boolean", val)
			return
		}
		*dst = b
	}
}

func (e *envReader) integer(name string, dst *int) {
	if key, val, ok := e.lookup(name); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			e.fail(key, "integer", val)
			return
		}
		*dst = i
	}
}

func (e *envReader) int64(name string, dst *int64) {
	if key, val, ok := e.lookup(name); ok {
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			e.fail(key, "integer", val)
			return
		}
		*dst = i
	}
}

func (e *envReader) float(name string, dst *float64) {
	if key, val, ok := e.lookup(name); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			e.fail(key, "number", val)
			return
		}
		*dst = f
	}
}

func (e *envReader) duration(name string, dst *time.Duration) {
	if key, val, ok := e.lookup(name); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			e.fail(key, "duration", val)
			return
		}
		*dst = d
	}
}
