package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/verdict/pkg/cli"
	"mercator-hq/verdict/pkg/rule/source"
)

var lintFlags struct {
	file   string
	strict bool
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate a rule set file",
	Long: `Validate a rule set file.

The lint command parses every rule and combination and reports:
  - conditions that would fail evaluation (not exactly three tokens,
    a non-integer literal under > or <)
  - conditions that always evaluate to false (unknown operators)
  - combinations whose middle rules are dropped
  - example cases whose verdict differs from the expected one

Without --file the rules.file setting of the config file is used.

Examples:
  verdict lint --file rules.yaml

  # Warnings fail the run too
  verdict lint --file rules.yaml --strict

  # JSON output for CI
  verdict lint --file rules.yaml -o json`,
	Args: cobra.NoArgs,
	RunE: lintRules,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule set file to validate")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
}

type lintFinding struct {
	Entry    string `json:"entry"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type lintResult struct {
	File     string        `json:"file"`
	Entries  int           `json:"entries"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
	Findings []lintFinding `json:"findings"`
}

func lintRules(cmd *cobra.Command, args []string) error {
	path := lintFlags.file
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Rules.File
	}
	if path == "" {
		return cli.NewUsageError("--file must be specified (or set rules.file in the config)")
	}

	f, format, err := formatter(cli.FormatText)
	if err != nil {
		return err
	}

	rs, err := source.LoadFile(path)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}
	report, err := source.Lint(rs)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}

	result := lintResult{
		File:     path,
		Entries:  report.Entries,
		Errors:   report.Errors(),
		Warnings: report.Warnings(),
		Findings: make([]lintFinding, 0, len(report.Findings)),
	}
	for _, finding := range report.Findings {
		result.Findings = append(result.Findings, lintFinding(finding))
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		if err := f.FormatTo(out, result); err != nil {
			return err
		}
	} else {
		for _, finding := range result.Findings {
			fmt.Fprintf(out, "%s: %s: %s\n", finding.Severity, finding.Entry, finding.Message)
		}
		fmt.Fprintf(out, "%s: %d entries, %d errors, %d warnings\n",
			path, result.Entries, result.Errors, result.Warnings)
	}

	if result.Errors > 0 {
		return fmt.Errorf("%s: %d errors", path, result.Errors)
	}
	if lintFlags.strict && result.Warnings > 0 {
		return fmt.Errorf("%s: %d warnings (strict mode)", path, result.Warnings)
	}
	return nil
}
