package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mercator-hq/verdict/pkg/cli"
	"mercator-hq/verdict/pkg/config"
	"mercator-hq/verdict/pkg/rule/source"
	"mercator-hq/verdict/pkg/security/auth"
	servertls "mercator-hq/verdict/pkg/security/tls"
	"mercator-hq/verdict/pkg/server"
	"mercator-hq/verdict/pkg/service"
	"mercator-hq/verdict/pkg/store/retention"
	"mercator-hq/verdict/pkg/telemetry/health"
	"mercator-hq/verdict/pkg/telemetry/metrics"
	"mercator-hq/verdict/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the verdict HTTP service",
	Long: `Start the verdict HTTP service with the specified configuration.

The service exposes the rule API under /api/rules together with /health,
/ready, /version and /metrics. When rules.file is set its rules are loaded at
startup, and with rules.watch they are reloaded whenever the file changes.
server.auth requires API keys on /api/ routes and server.tls serves HTTPS.

Examples:
  # Start with defaults (verdict.yaml if present)
  verdict serve

  # Start with a custom config
  verdict serve --config /etc/verdict/verdict.yaml

  # Override listen address
  verdict serve --listen 0.0.0.0:8080

  # Validate config without starting the service
  verdict serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the service")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
		if err := config.Validate(cfg); err != nil {
			return err
		}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if serveFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	s, err := openStore(&cfg.Storage, logger)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer s.Close()

	var (
		collector *metrics.Collector
		recorder  service.Recorder
	)
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		recorder = collector
		err := collector.RegisterStoreGauge(func() float64 {
			n, err := s.Count(context.Background())
			if err != nil {
				return 0
			}
			return float64(n)
		})
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
	}

	svc := service.New(s, service.Options{
		MaxDecodeDepth: cfg.Engine.MaxDecodeDepth,
		LogDiscarded:   cfg.Engine.LogDiscarded,
	}, recorder, logger)

	checker := health.New(0)
	checker.RegisterCheck("store", s.Ping)

	if path := cfg.Rules.File; path != "" {
		checker.RegisterCheck("rules_file", func(context.Context) error {
			_, err := os.Stat(path)
			return err
		})
		if err := svc.ReloadFile(ctx, path); err != nil {
			return cli.NewCommandError("serve", err)
		}
		fmt.Fprintf(out, "✓ Rules loaded from %s\n", path)
	}

	if rc := cfg.Storage.Retention; rc.Days > 0 || rc.MaxRecords > 0 {
		scheduler := retention.NewScheduler(retention.NewPruner(s, retentionConfig(&rc), logger))
		if err := scheduler.Start(ctx); err != nil {
			logger.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
			if next := scheduler.NextRun(); next != nil {
				logger.Debug("retention scheduler started", "next_prune", next)
			}
		}
	}

	srv := server.New(cfg, svc, collector, checker, server.BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
	}, logger)

	if ac := &cfg.Server.Auth; ac.Enabled {
		validator, err := auth.NewValidatorFromConfig(ac)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		srv.SetAuthenticator(validator)
		logger.Info("API key authentication enabled", "keys", validator.Names(), "path_prefix", ac.PathPrefix)
	}

	scheme := "http"
	if tc := &cfg.Server.TLS; tc.Enabled {
		reloader := servertls.NewCertificateReloader(tc.CertFile, tc.KeyFile, tc.ReloadInterval, logger)
		if err := reloader.Start(ctx); err != nil {
			return cli.NewCommandError("serve", fmt.Errorf("failed to load TLS certificate: %w", err))
		}
		tlsConfig, err := servertls.NewServerConfig(tc, reloader)
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		srv.SetTLSConfig(tlsConfig)
		checker.RegisterCheck("tls_certificate", reloader.Check)
		scheme = "https"
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})

	if cfg.Rules.Watch {
		watcher, err := source.NewFileWatcher(&source.FileWatcherConfig{
			Path:             cfg.Rules.File,
			DebounceInterval: cfg.Rules.Debounce,
		}, logger)
		if err != nil {
			stop()
			_ = g.Wait()
			return cli.NewCommandError("serve", err)
		}
		g.Go(func() error {
			return watcher.Watch(gctx, func() error {
				return svc.ReloadFile(gctx, cfg.Rules.File)
			})
		})
	}

	select {
	case <-srv.Ready():
		addr := srv.Addr()
		fmt.Fprintf(out, "✓ Server listening on %s\n", addr)
		fmt.Fprintf(out, "✓ Health endpoint: %s://%s/health\n", scheme, addr)
		if collector != nil {
			fmt.Fprintf(out, "✓ Metrics endpoint: %s://%s%s\n", scheme, addr, cfg.Telemetry.Metrics.Path)
		}
		if tracer.Enabled() {
			fmt.Fprintf(out, "✓ Tracing to %s\n", cfg.Telemetry.Tracing.Endpoint)
		}
		fmt.Fprintln(out, "\nPress Ctrl+C to stop")
	case <-gctx.Done():
	}

	if err := g.Wait(); err != nil {
		return cli.NewCommandError("serve", err)
	}
	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}
