package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const testRecipient = "0x1111111111111111111111111111111111111111"

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cfgFile, envFile, verbose = defaultConfigFile, "", false
	runFlags.listenAddress, runFlags.logLevel, runFlags.dryRun = "", "", false
	validateFlags.output = "text"
	versionShort = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	return writeFile(t, "config.yaml", `
upstream:
  api_key: test-upstream-key
  surplus_recipient: "`+testRecipient+`"
telemetry:
  logging:
    level: error
`+extra)
}
