package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/subcommands"
)

// Helper function to create a temporary ledger file
func createTempLedger(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test_ledger.jsonl")
	if err := os.WriteFile(name, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp ledger: %v", err)
	}
	return name
}

// useLedger overrides the global ledgerFile for the test.
func useLedger(t *testing.T, filename string) {
	t.Helper()
	old := ledgerFile
	ledgerFile = &filename
	t.Cleanup(func() { ledgerFile = old })
}

// useConfig overrides the global configFile for the test.
func useConfig(t *testing.T, filename string) {
	t.Helper()
	old := configFile
	configFile = &filename
	t.Cleanup(func() { configFile = old })
}

// captureOutput redirects reports to a buffer for the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// run parses args with the command flags then executes it.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("cannot parse %v: %v", args, err)
	}
	return cmd.Execute(context.Background(), f)
}

const sampleLedger = `{"command":"buy","date":"2025-01-02","ticker":"XYZ","quantity":100,"price":90}
{"command":"open","id":"o1","date":"2025-01-10","ticker":"XYZ","optionId":"XYZ-20250620-C-100","kind":"call","direction":"short","strike":100,"expiration":"2025-06-20","quantity":1,"premium":300}
{"command":"close","date":"2025-02-10","ticker":"XYZ","optionId":"XYZ-20250620-C-100","quantity":1,"premium":120,"commission":0.65}
`
