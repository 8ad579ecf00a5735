/*
Package cli provides command-line helpers for the verdict command.

Output Formatting:

Commands print results as text or JSON:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, doc); err != nil {
		return err
	}

JSON output does not HTML-escape, so conditions such as "age > 30" print as
written.

Exit Codes:

ExitCode maps a command error to a process exit status. Usage errors exit
with 2, everything else with 1.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
