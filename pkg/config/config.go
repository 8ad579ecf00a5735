package config

import "time"

// Config is the root configuration structure.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Storage selects and configures the rule store.
	Storage StorageConfig `yaml:"storage"`

	// Rules configures the rule set file loaded at startup.
	Rules RulesConfig `yaml:"rules"`

	// Engine contains rule engine limits.
	Engine EngineConfig `yaml:"engine"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the "host:port" to listen on.
	// Default: "127.0.0.1:5000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits request body size.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// Compression enables gzip response compression.
	// Default: true
	Compression bool `yaml:"compression"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// RateLimit contains per-client rate limiting configuration.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Auth contains API key authentication configuration.
	Auth AuthConfig `yaml:"auth"`

	// TLS contains TLS configuration.
	TLS TLSConfig `yaml:"tls"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are sent.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// PathPrefix restricts CORS handling to matching request paths.
	// Default: "/api/"
	PathPrefix string `yaml:"path_prefix"`

	// AllowedOrigins lists allowed origins. "*" allows any origin.
	// Default: ["http://127.0.0.1:5500"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed methods.
	// Default: ["GET", "POST", "DELETE", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders lists headers exposed to the browser.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials allows cookies and auth headers.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// RateLimitConfig contains per-client rate limiting configuration.
type RateLimitConfig struct {
	// Enabled turns the limiter on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// RequestsPerSecond is the sustained rate per client IP.
	// Default: 10
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the bucket size per client IP.
	// Default: 20
	Burst int `yaml:"burst"`
}

// AuthConfig contains API key authentication configuration.
type AuthConfig struct {
	// Enabled requires an API key on every request under PathPrefix.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// PathPrefix restricts authentication to matching request paths.
	// Default: "/api/"
	PathPrefix string `yaml:"path_prefix"`

	// Keys lists the accepted API keys.
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig is one accepted API key. Exactly one of Key and KeyEnv is set.
type APIKeyConfig struct {
	// Name identifies the key in logs.
	Name string `yaml:"name"`

	// Key is the literal key.
	Key string `yaml:"key"`

	// KeyEnv names an environment variable holding the key.
	KeyEnv string `yaml:"key_env"`

	// Disabled rejects the key without removing it.
	Disabled bool `yaml:"disabled"`
}

// TLSConfig contains TLS configuration for the HTTP server.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is "1.2" or "1.3".
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// CipherSuites restricts TLS 1.2 cipher suites. Empty uses Go's defaults.
	CipherSuites []string `yaml:"cipher_suites"`

	// ReloadInterval is how often the certificate files are checked for changes.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`

	// ClientCAFile enables client certificate verification against this CA.
	ClientCAFile string `yaml:"client_ca_file"`

	// ClientAuth is "require", "request" or "verify_if_given".
	// Default: "require" when ClientCAFile is set
	ClientAuth string `yaml:"client_auth"`
}

// StorageConfig selects the rule store backend.
type StorageConfig struct {
	// Backend is "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention configures pruning of stored rules.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains SQLite configuration.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: "data/verdict.db"
	Path string `yaml:"path"`

	// Driver is "sqlite" (modernc.org/sqlite) or "sqlite3" (mattn/go-sqlite3).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the lock wait time.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains retention configuration.
type RetentionConfig struct {
	// Days keeps rules for this many days. 0 keeps them forever.
	// Default: 0
	Days int `yaml:"days"`

	// MaxRecords caps the number of stored rules. 0 is unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// PruneSchedule is a standard cron expression.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// RulesConfig configures the rule set file.
type RulesConfig struct {
	// File is a YAML rule set loaded into the store at startup. Empty
	// disables seeding.
	File string `yaml:"file"`

	// Watch reloads File when it changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce is the quiet period before a reload.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`
}

// EngineConfig contains rule engine limits.
type EngineConfig struct {
	// MaxDecodeDepth bounds the nesting of decoded trees.
	// Default: 512
	MaxDecodeDepth int `yaml:"max_decode_depth"`

	// LogDiscarded logs a warning naming the rules dropped by combine.
	// Default: true
	LogDiscarded bool `yaml:"log_discarded"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactFacts hides fact values in debug logs.
	// Default: true
	RedactFacts bool `yaml:"redact_facts"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled exposes Prometheus metrics.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "verdict"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled exports spans over OTLP/gRPC.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler is "always", "never" or "ratio".
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces sampled by the "ratio" sampler.
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP collector address (host:port).
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "verdict"
	ServiceName string `yaml:"service_name"`
}
