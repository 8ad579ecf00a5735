package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/verdict/pkg/cli"
	"mercator-hq/verdict/pkg/rule/ast"
	"mercator-hq/verdict/pkg/rule/codec"
	"mercator-hq/verdict/pkg/rule/parser"
	"mercator-hq/verdict/pkg/service"
)

var parseCmd = &cobra.Command{
	Use:   "parse <rule>",
	Short: "Print the encoded tree of a rule string",
	Long: `Parse a rule string and print its tree.

The first AND splits the rule into two conditions; otherwise the first OR
does; otherwise the whole string is a single condition.

Examples:
  # JSON document, as returned by POST /api/rules
  verdict parse "age > 30 AND department = 'Sales'"

  # One-line rendering
  verdict parse -o text "age > 30 OR country = 'US'"`,
	Args: cobra.ExactArgs(1),
	RunE: parseRule,
}

var combineCmd = &cobra.Command{
	Use:   "combine <rule> <rule> [rule...]",
	Short: "Print the combined tree of several rule strings",
	Long: `Combine rule strings under a single AND node.

The first rule becomes the left child and the last rule the right child. Rules
in between are dropped; a warning names them.

Examples:
  verdict combine "age > 30" "country = 'US'"`,
	Args: cobra.MinimumNArgs(1),
	RunE: combineRules,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(combineCmd)
}

func parseRule(cmd *cobra.Command, args []string) error {
	if args[0] == "" {
		return cli.NewUsageError("%s", service.MsgRuleStringRequired)
	}
	return printTree(cmd.OutOrStdout(), parser.Parse(args[0]))
}

func combineRules(cmd *cobra.Command, args []string) error {
	tree, err := parser.Combine(args)
	if err != nil {
		return cli.NewCommandError("combine", err)
	}

	if dropped := parser.Discarded(args); len(dropped) > 0 {
		names := make([]string, len(dropped))
		for i, idx := range dropped {
			names[i] = fmt.Sprintf("%q", args[idx])
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: combine keeps only the first and last rules; dropped %s\n",
			strings.Join(names, ", "))
	}

	return printTree(cmd.OutOrStdout(), tree)
}

func printTree(w io.Writer, tree ast.Node) error {
	f, format, err := formatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if format == cli.FormatText {
		return f.FormatTo(w, ast.Format(tree))
	}
	return f.FormatTo(w, codec.Encode(tree))
}
