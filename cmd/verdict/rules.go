package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/verdict/pkg/api/types"
	"mercator-hq/verdict/pkg/cli"
	"mercator-hq/verdict/pkg/config"
	"mercator-hq/verdict/pkg/store"
	"mercator-hq/verdict/pkg/store/retention"
)

var rulesFlags struct {
	out string
	in  string
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the persistent rule store",
	Long: `Inspect, back up and restore the rule store.

These commands operate on the SQLite store named by storage.sqlite.path; the
memory backend keeps nothing between runs.

Examples:
  # List stored rules
  verdict rules list

  # Write a zstd-compressed snapshot
  verdict rules export --out rules.zst

  # Restore a snapshot, skipping rules already present
  verdict rules import --in rules.zst

  # Apply the retention settings once
  verdict rules prune`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rules",
	Args:  cobra.NoArgs,
	RunE:  listRules,
}

var rulesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every stored rule to a snapshot file",
	Args:  cobra.NoArgs,
	RunE:  exportRules,
}

var rulesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Append the rules of a snapshot file to the store",
	Args:  cobra.NoArgs,
	RunE:  importRules,
}

var rulesPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete rules outside the configured retention",
	Args:  cobra.NoArgs,
	RunE:  pruneRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesExportCmd, rulesImportCmd, rulesPruneCmd)

	rulesExportCmd.Flags().StringVar(&rulesFlags.out, "out", "", "snapshot file to write")
	rulesImportCmd.Flags().StringVar(&rulesFlags.in, "in", "", "snapshot file to read")
}

// withStore opens the persistent store for the duration of fn.
func withStore(command string, fn func(ctx context.Context, s store.Store) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	if cfg.Storage.Backend != "sqlite" {
		return cli.NewUsageError("rules %s requires storage.backend sqlite (got %s)", command, cfg.Storage.Backend)
	}

	s, err := openStore(&cfg.Storage, logger)
	if err != nil {
		return cli.NewCommandError("rules "+command, err)
	}
	defer s.Close()

	if err := fn(context.Background(), s); err != nil {
		return cli.NewCommandError("rules "+command, err)
	}
	return nil
}

func listRules(cmd *cobra.Command, args []string) error {
	f, format, err := formatter(cli.FormatJSON)
	if err != nil {
		return err
	}

	return withStore("list", func(ctx context.Context, s store.Store) error {
		records, err := s.List(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if format == cli.FormatJSON {
			return f.FormatTo(out, types.NewListResponse(records))
		}
		for _, r := range records {
			name := r.Name
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(out, "%s  %-8s  %-6s  %-20s  %s\n", r.ID, r.Kind, r.Origin, name, r.RuleString)
		}
		return nil
	})
}

func exportRules(cmd *cobra.Command, args []string) error {
	if rulesFlags.out == "" {
		return cli.NewUsageError("--out must be specified")
	}

	return withStore("export", func(ctx context.Context, s store.Store) error {
		file, err := os.Create(rulesFlags.out)
		if err != nil {
			return fmt.Errorf("failed to create snapshot: %w", err)
		}

		n, err := store.WriteSnapshot(ctx, file, s)
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close snapshot: %w", cerr)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rules to %s\n", n, rulesFlags.out)
		return nil
	})
}

func importRules(cmd *cobra.Command, args []string) error {
	if rulesFlags.in == "" {
		return cli.NewUsageError("--in must be specified")
	}

	return withStore("import", func(ctx context.Context, s store.Store) error {
		file, err := os.Open(rulesFlags.in)
		if err != nil {
			return fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer file.Close()

		added, skipped, err := store.ReadSnapshot(ctx, file, s)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rules from %s (%d already present)\n", added, rulesFlags.in, skipped)
		return nil
	})
}

func pruneRules(cmd *cobra.Command, args []string) error {
	return withStore("prune", func(ctx context.Context, s store.Store) error {
		rc := retentionConfig(&config.GetConfig().Storage.Retention)
		deleted, err := retention.NewPruner(s, rc, slog.Default()).Prune(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d rules (days=%d, max_records=%d)\n", deleted, rc.Days, rc.MaxRecords)
		return nil
	})
}
