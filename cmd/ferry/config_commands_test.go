package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	for _, dir := range []string{"inbox", "outbox", "logs"} {
		if err := os.MkdirAll(filepath.Join(base, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	content := fmt.Sprintf(`[paths]
source_dir = %q
target = %q
log_dir = %q

[smb]
password = "hunter2"
`, filepath.Join(base, "inbox"), filepath.Join(base, "outbox"), filepath.Join(base, "logs"))

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "ferry", "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("output %q missing target path", output)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite must fail")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init --overwrite: %v", err)
	}
}

func TestConfigShowMasksPassword(t *testing.T) {
	path := writeTestConfig(t)

	output, err := runCommand(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(output, "hunter2") {
		t.Fatal("password leaked into config show output")
	}
	if !strings.Contains(output, "********") {
		t.Fatalf("output missing masked password:\n%s", output)
	}
	if !strings.Contains(output, path) {
		t.Fatal("output missing config path comment")
	}
}

func TestConfigPathReportsMissingFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nope.toml")

	output, err := runCommand(t, "config", "path", "--config", target)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("output %q missing resolved path", output)
	}
	if !strings.Contains(output, "does not exist") {
		t.Fatalf("output %q missing absence note", output)
	}
}

func TestHistoryWithEmptyJournal(t *testing.T) {
	path := writeTestConfig(t)

	output, err := runCommand(t, "--config", path, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(output, "No passes recorded yet") {
		t.Fatalf("output = %q", output)
	}
}

func TestRunRejectsInvalidModeFlag(t *testing.T) {
	path := writeTestConfig(t)

	if _, err := runCommand(t, "--config", path, "run", "--mode", "sideways"); err == nil {
		t.Fatal("expected invalid mode to fail")
	}
}
