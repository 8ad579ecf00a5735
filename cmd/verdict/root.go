package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/verdict/pkg/cli"
	"mercator-hq/verdict/pkg/config"
	"mercator-hq/verdict/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile      string
	logLevel     string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Verdict - rule parsing and evaluation service",
	Long: `Verdict turns rule strings such as "age > 30 AND department = 'Sales'"
into condition trees, combines rules, and evaluates serialized trees against
fact records.

It runs as an HTTP service (verdict serve) or as a set of local commands for
parsing, combining, evaluating and linting rules.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text, json")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.NewUsageError("%v", err)
	})
}

// loadConfig loads the config file and applies the --log-level override. A
// missing file is only an error when --config was given explicitly.
func loadConfig() (*config.Config, error) {
	optional := !rootCmd.PersistentFlags().Changed("config")
	cfg, err := config.Load(cfgFile, optional)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Telemetry.Logging.Level = logLevel
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	config.SetConfig(cfg)
	return cfg, nil
}

// newLogger builds the process logger from config and installs it as the
// slog default. Logs go to stderr so command output stays parseable.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Telemetry.Logging.Level,
		Format:      cfg.Telemetry.Logging.Format,
		AddSource:   cfg.Telemetry.Logging.AddSource,
		RedactFacts: cfg.Telemetry.Logging.RedactFacts,
		Writer:      os.Stderr,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// setup loads config and the logger for commands that need both.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// formatter returns the formatter for --output, falling back to def.
func formatter(def cli.OutputFormat) (cli.Formatter, cli.OutputFormat, error) {
	format := def
	if outputFormat != "" {
		f, err := cli.ParseFormat(outputFormat)
		if err != nil {
			return nil, "", err
		}
		format = f
	}
	f, err := cli.NewFormatter(format)
	return f, format, err
}
