package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/valyala/fastjson"

	"mercator-hq/verdict/pkg/api/types"
	"mercator-hq/verdict/pkg/cli"
	"mercator-hq/verdict/pkg/service"
	"mercator-hq/verdict/pkg/store"
)

var evalFlags struct {
	ast     string
	facts   string
	explain bool
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate a serialized tree against a fact record",
	Long: `Evaluate a tree produced by parse or combine against a JSON object of facts.

Either --ast or --facts may be "-" to read from standard input.

Examples:
  verdict parse "age > 30 AND department = 'Sales'" > tree.json
  verdict eval --ast tree.json --facts user.json

  # Show the decision for each condition
  echo '{"age": 35, "department": "Sales"}' | verdict eval --ast tree.json --facts - --explain`,
	Args: cobra.NoArgs,
	RunE: evalRule,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalFlags.ast, "ast", "", "serialized tree file, or - for stdin")
	evalCmd.Flags().StringVar(&evalFlags.facts, "facts", "", "facts JSON file, or - for stdin")
	evalCmd.Flags().BoolVar(&evalFlags.explain, "explain", false, "print the decision for each condition")
}

func evalRule(cmd *cobra.Command, args []string) error {
	if evalFlags.ast == "" || evalFlags.facts == "" {
		return cli.NewUsageError("both --ast and --facts must be specified")
	}
	if evalFlags.ast == "-" && evalFlags.facts == "-" {
		return cli.NewUsageError("--ast and --facts cannot both read from stdin")
	}

	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	astData, err := readInput(cmd, evalFlags.ast)
	if err != nil {
		return err
	}
	factsData, err := readInput(cmd, evalFlags.facts)
	if err != nil {
		return err
	}

	var astParser, factsParser fastjson.Parser
	astValue, err := astParser.ParseBytes(astData)
	if err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", evalFlags.ast, err)
	}
	factsValue, err := factsParser.ParseBytes(factsData)
	if err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", evalFlags.facts, err)
	}

	svc := service.New(store.NewMemoryStore(), service.Options{
		MaxDecodeDepth: cfg.Engine.MaxDecodeDepth,
		LogDiscarded:   cfg.Engine.LogDiscarded,
	}, nil, logger)

	verdict, err := svc.EvaluateJSON(context.Background(), factsValue, astValue, evalFlags.explain)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}

	f, format, err := formatter(cli.FormatJSON)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		return f.FormatTo(out, types.EvaluateResponse{Result: verdict.Result, Trace: verdict.Trace})
	}

	if err := f.FormatTo(out, verdict.Result); err != nil {
		return err
	}
	for _, step := range verdict.Trace {
		if _, err := fmt.Fprintf(out, "  %-5v %s\n", step.Result, step.Condition); err != nil {
			return err
		}
	}
	return nil
}

// readInput reads a file, or standard input for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
