package config

import "time"

// DefaultConfigPath is the config file used when --config is not given.
const DefaultConfigPath = "verdict.yaml"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:5000"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB
	DefaultMaxBodyBytes    = int64(1048576)
	DefaultCompression     = true

	// CORS defaults
	DefaultCORSEnabled    = true
	DefaultCORSPathPrefix = "/api/"
	DefaultCORSOrigin     = "http://127.0.0.1:5500"
	DefaultCORSMaxAge     = 3600

	// Rate limit defaults
	DefaultRateLimitRPS   = 10.0
	DefaultRateLimitBurst = 20

	// Auth defaults
	DefaultAuthPathPrefix = "/api/"

	// TLS defaults
	DefaultTLSMinVersion     = "1.3"
	DefaultTLSReloadInterval = 5 * time.Minute
	DefaultTLSClientAuth     = "require"

	// Storage defaults
	DefaultStorageBackend    = "memory"
	DefaultSQLitePath        = "data/verdict.db"
	DefaultSQLiteDriver      = "sqlite"
	DefaultSQLiteWALMode     = true
	DefaultSQLiteBusyTimeout = 5 * time.Second
	DefaultPruneSchedule     = "0 3 * * *"

	// Rules defaults
	DefaultRulesDebounce = 100 * time.Millisecond

	// Engine defaults
	DefaultMaxDecodeDepth = 512
	DefaultLogDiscarded   = true

	// Telemetry defaults
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultRedactFacts    = true
	DefaultMetricsEnabled = true
	DefaultMetricsPath    = "/metrics"
	DefaultMetricsNS      = "verdict"

	// Tracing defaults
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingTimeout     = 10 * time.Second
	DefaultTracingService     = "verdict"
)

// Default returns a configuration with every default applied, including the
// boolean fields that default to true. File contents are decoded on top of it.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Compression: DefaultCompression,
			CORS:        CORSConfig{Enabled: DefaultCORSEnabled},
		},
		Storage: StorageConfig{
			SQLite: SQLiteConfig{WALMode: DefaultSQLiteWALMode},
		},
		Engine: EngineConfig{LogDiscarded: DefaultLogDiscarded},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactFacts: DefaultRedactFacts},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Boolean fields
// are left alone; Default sets those before decoding.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// CORS defaults
	cors := &cfg.Server.CORS
	if cors.PathPrefix == "" {
		cors.PathPrefix = DefaultCORSPathPrefix
	}
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{DefaultCORSOrigin}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Content-Type", "Authorization", "X-API-Key", "X-Request-ID"}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID", "X-Trace-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}

	// Rate limit defaults
	if cfg.Server.RateLimit.RequestsPerSecond == 0 {
		cfg.Server.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = DefaultRateLimitBurst
	}

	if cfg.Server.Auth.PathPrefix == "" {
		cfg.Server.Auth.PathPrefix = DefaultAuthPathPrefix
	}

	// TLS defaults
	tls := &cfg.Server.TLS
	if tls.MinVersion == "" {
		tls.MinVersion = DefaultTLSMinVersion
	}
	if tls.ReloadInterval == 0 {
		tls.ReloadInterval = DefaultTLSReloadInterval
	}
	if tls.ClientCAFile != "" && tls.ClientAuth == "" {
		tls.ClientAuth = DefaultTLSClientAuth
	}

	// Storage defaults
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.SQLite.Driver == "" {
		cfg.Storage.SQLite.Driver = DefaultSQLiteDriver
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Storage.Retention.PruneSchedule == "" {
		cfg.Storage.Retention.PruneSchedule = DefaultPruneSchedule
	}

	// Rules defaults
	if cfg.Rules.Debounce == 0 {
		cfg.Rules.Debounce = DefaultRulesDebounce
	}

	// Engine defaults
	if cfg.Engine.MaxDecodeDepth == 0 {
		cfg.Engine.MaxDecodeDepth = DefaultMaxDecodeDepth
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNS
	}

	tracing := &cfg.Telemetry.Tracing
	if tracing.Sampler == "" {
		tracing.Sampler = DefaultTracingSampler
	}
	if tracing.SampleRatio == 0 && tracing.Sampler == DefaultTracingSampler {
		tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if tracing.Endpoint == "" {
		tracing.Endpoint = DefaultTracingEndpoint
	}
	if tracing.Timeout == 0 {
		tracing.Timeout = DefaultTracingTimeout
	}
	if tracing.ServiceName == "" {
		tracing.ServiceName = DefaultTracingService
	}
}
