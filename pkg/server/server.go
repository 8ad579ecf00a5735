package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/klauspost/compress/gzhttp"

	"mercator-hq/verdict/pkg/api/handlers"
	"mercator-hq/verdict/pkg/api/middleware"
	"mercator-hq/verdict/pkg/config"
	"mercator-hq/verdict/pkg/security/auth"
	"mercator-hq/verdict/pkg/service"
	"mercator-hq/verdict/pkg/telemetry/health"
	"mercator-hq/verdict/pkg/telemetry/metrics"
	"mercator-hq/verdict/pkg/telemetry/tracing"
)

// BuildInfo is served by the version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Server is the verdict HTTP server.
type Server struct {
	config    *config.Config
	svc       *service.Service
	collector *metrics.Collector
	checker   *health.Checker
	build     BuildInfo
	logger    *slog.Logger
	tlsConfig *tls.Config
	validator *auth.APIKeyValidator

	httpServer   *http.Server
	listener     net.Listener
	ready        chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server. collector may be nil when metrics are disabled and
// checker may be nil when no readiness checks are needed.
func New(cfg *config.Config, svc *service.Service, collector *metrics.Collector, checker *health.Checker, build BuildInfo, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if checker == nil {
		checker = health.New(0)
	}
	return &Server{
		config:    cfg,
		svc:       svc,
		collector: collector,
		checker:   checker,
		build:     build,
		logger:    logger.With("component", "server"),
		ready:     make(chan struct{}),
	}
}

// SetTLSConfig serves HTTPS with c. It must be called before Start.
func (s *Server) SetTLSConfig(c *tls.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tlsConfig = c
}

// SetAuthenticator requires an API key from v on the configured auth path
// prefix. It must be called before Start or Handler.
func (s *Server) SetAuthenticator(v *auth.APIKeyValidator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validator = v
}

// Start listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully. A server cannot be restarted.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}

	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		TLSConfig:      s.tlsConfig,
	}
	s.isRunning = true
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("starting server",
		"address", ln.Addr().String(),
		"storage_backend", s.config.Storage.Backend,
		"metrics_enabled", s.collector != nil,
		"tls", s.tlsConfig != nil,
		"auth", s.validator != nil,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown gracefully shuts down the server. Only the first call has effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the address the server listens on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handler()
}

func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()

	handlers.NewRuleHandler(s.svc, s.config.Server.MaxBodyBytes, s.logger).Register(mux)

	mux.HandleFunc("GET /health", s.checker.LivenessHandler())
	mux.HandleFunc("GET /ready", s.checker.ReadinessHandler())
	mux.HandleFunc("GET /version", health.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildTime))

	if s.collector != nil {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	// Innermost first
	var handler http.Handler = mux

	if s.collector != nil {
		handler = middleware.MetricsMiddleware(s.collector)(handler)
	}

	// Reads the matched pattern back, so it must sit next to the mux.
	if s.config.Telemetry.Tracing.Enabled {
		handler = tracing.HTTPMiddleware(handler)
	}

	if s.validator != nil {
		var onFailure func(string)
		if s.collector != nil {
			onFailure = s.collector.RecordAuthFailure
		}
		handler = auth.Middleware(s.validator, s.config.Server.Auth.PathPrefix, s.logger, onFailure)(handler)
	}

	if rl := s.config.Server.RateLimit; rl.Enabled {
		var onLimit func()
		if s.collector != nil {
			onLimit = s.collector.RecordRateLimited
		}
		limiter := middleware.NewRateLimiter(rl.RequestsPerSecond, rl.Burst)
		handler = middleware.RateLimitMiddleware(limiter, onLimit)(handler)
	}

	handler = middleware.CORSMiddleware(&s.config.Server.CORS)(handler)
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	if s.config.Server.Compression {
		handler = gzhttp.GzipHandler(handler)
	}

	return handler
}
