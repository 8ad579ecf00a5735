package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// newTestCmd returns a command whose output is captured, and resets the global
// flags so each test starts from defaults without a config file.
func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	logLevel = "error"
	outputFormat = ""

	t.Cleanup(func() {
		outputFormat = ""
		logLevel = ""
	})

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(&bytes.Buffer{})
	return cmd, out, errOut
}
