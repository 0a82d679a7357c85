package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runDiagnoseCommand(t *testing.T, args ...string) string {
	t.Helper()
	cmd := NewDiagnoseCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("diagnose failed: %v", err)
	}
	return buf.String()
}

func TestRunDiagnose_PerSourceFormats(t *testing.T) {
	tmpDir := t.TempDir()
	files := map[string]string{
		"a.log":     "2018-04-06 17:13:40,955 INFO ready\n2018-04-06 17:13:41,000 INFO serving\n",
		"b.log":     "Apr 6 17:13:40 host sshd: accepted\n",
		"plain.txt": "no stamps here\nnor here\n",
		"mixed.txt": "first\nsecond\nthird\n01:02:03 late\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", name, err)
		}
	}

	configPath := filepath.Join(tmpDir, "ziplog.yaml")
	config := `sources:
  - path: ` + filepath.Join(tmpDir, "*.log") + `
  - path: ` + filepath.Join(tmpDir, "plain.txt") + `
    prefix: "p "
  - path: ` + filepath.Join(tmpDir, "mixed.txt") + `
  - path: ` + filepath.Join(tmpDir, "gone.log") + `
  - path: "-"
`
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}

	out := runDiagnoseCommand(t, configPath)

	checks := []string{
		"[PASS] Source: \"> \" " + filepath.Join(tmpDir, "a.log"),
		"Locks to Python/log4j comma milliseconds at line 1 (2/2 sampled lines timestamped)",
		"Locks to Syslog (BSD) at line 1 (1/1 sampled lines timestamped)",
		"[WARN] Source: \"p \" " + filepath.Join(tmpDir, "plain.txt"),
		"No timestamp format found in 2 sampled lines",
		"Locks to Time of day at line 4 (1/4 sampled lines timestamped)",
		"Run 'ziplog detect --all " + filepath.Join(tmpDir, "mixed.txt") + "'",
		"[FAIL] Source: \"> \" " + filepath.Join(tmpDir, "gone.log"),
		"File does not exist",
		"Standard input, format detected while merging",
		"Summary: 5 passed, 2 warnings, 1 errors",
		"Fix the errors above before merging.",
	}
	for _, check := range checks {
		if !strings.Contains(out, check) {
			t.Errorf("Output missing %q:\n%s", check, out)
		}
	}

	// Passing sources only show their details when verbose.
	if strings.Contains(out, "Locking line: 2018-04-06 17:13:40,955 INFO ready") {
		t.Errorf("Details of a passing source shown without -v:\n%s", out)
	}
	out = runDiagnoseCommand(t, "-v", configPath)
	if !strings.Contains(out, "Locking line: 2018-04-06 17:13:40,955 INFO ready") {
		t.Errorf("Verbose output missing locking line:\n%s", out)
	}
}

func TestRunDiagnose_ConfigProblems(t *testing.T) {
	tmpDir := t.TempDir()

	out := runDiagnoseCommand(t, filepath.Join(tmpDir, "missing.yaml"))
	if !strings.Contains(out, "[FAIL] Config File") || !strings.Contains(out, "--write-config") {
		t.Errorf("Expected missing config failure:\n%s", out)
	}

	badPath := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("interval: hours\n"), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	out = runDiagnoseCommand(t, badPath)
	if !strings.Contains(out, "[FAIL] Config Syntax") || !strings.Contains(out, "invalid interval specifier") {
		t.Errorf("Expected config syntax failure:\n%s", out)
	}

	emptyPath := filepath.Join(tmpDir, "empty.yaml")
	if err := os.WriteFile(emptyPath, []byte("interval: s\n"), 0644); err != nil {
		t.Fatalf("Failed to create config: %v", err)
	}
	out = runDiagnoseCommand(t, emptyPath)
	if !strings.Contains(out, "No sources defined") || !strings.Contains(out, "Configuration is usable but has warnings.") {
		t.Errorf("Expected no-sources warning:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("ééééééééééé", 8); got != "ééééé..." {
		t.Errorf("truncate() = %q, want rune-safe cut", got)
	}
}
