package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/ziplog/pkg/config"
	"github.com/ccollicutt/ziplog/pkg/detector"
	"github.com/ccollicutt/ziplog/pkg/output"
)

func sampleResult(t *testing.T) *detector.DetectionResult {
	t.Helper()
	d := detector.New()
	return d.DetectFromLines([]string{
		"starting up",
		"2018-04-06 17:13:40,955 INFO ready",
		"2018-04-06 17:13:41,000 INFO serving",
		"Traceback (most recent call last):",
	})
}

func runDetectCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewDetectCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestGenerateStarterConfig(t *testing.T) {
	content, err := generateStarterConfig(sampleResult(t), "/var/log/test.log")
	if err != nil {
		t.Fatalf("generateStarterConfig failed: %v", err)
	}

	checks := []string{
		"# Detected format: Python/log4j comma milliseconds (50% of sampled lines)",
		"sources:",
		"/var/log/test.log",
		"test.log ",
	}
	for _, check := range checks {
		if !strings.Contains(string(content), check) {
			t.Errorf("Config missing %q:\n%s", check, content)
		}
	}

	// The generated file must load back as a valid config.
	var cfg config.Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		t.Fatalf("Generated config is not valid YAML: %v", err)
	}
	if err := config.Validate(&cfg); err != nil {
		t.Fatalf("Generated config does not validate: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].PrefixOr("") != "test.log " {
		t.Errorf("Unexpected sources: %+v", cfg.Sources)
	}
}

func TestGenerateStarterConfig_NoMatch(t *testing.T) {
	result := detector.New().DetectFromLines([]string{"no", "stamps"})

	content, err := generateStarterConfig(result, "/var/log/plain.log")
	if err != nil {
		t.Fatalf("generateStarterConfig failed: %v", err)
	}
	if !strings.Contains(string(content), "# Detected format: none") {
		t.Errorf("Expected no detected format:\n%s", content)
	}
}

func TestWriteStarterConfig_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	if err := writeStarterConfig(sampleResult(t), "/var/log/app.log", configPath); err != nil {
		t.Fatalf("writeStarterConfig failed: %v", err)
	}

	cfg, err := config.Load(context.Background(), configPath)
	if err != nil {
		t.Fatalf("Written config does not load: %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Path != "/var/log/app.log" {
		t.Errorf("Unexpected sources: %+v", cfg.Sources)
	}
}

func TestWriteStarterConfig_NoOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "existing.yaml")

	if err := os.WriteFile(configPath, []byte("existing content"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	err := writeStarterConfig(sampleResult(t), "/var/log/app.log", configPath)
	if err == nil {
		t.Fatal("Expected error when file exists, got nil")
	}
	if !strings.Contains(err.Error(), "will not overwrite") {
		t.Errorf("Expected 'will not overwrite' error, got: %v", err)
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "existing content" {
		t.Error("Existing file was modified")
	}
}

func TestRunDetect_Text(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(logPath, []byte("16255 15:08:52.554223 read(3, ...) = 1\nno stamp\n"), 0644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}

	out, err := runDetectCommand(t, logPath)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "Detected Format: strace") {
		t.Errorf("Expected strace format, got:\n%s", out)
	}
	if !strings.Contains(out, "Coverage: 50.0% (1/2 lines)") {
		t.Errorf("Expected coverage, got:\n%s", out)
	}

	out, err = runDetectCommand(t, "-q", logPath)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if out != logPath+": strace (1/2 lines)\n" {
		t.Errorf("Unexpected quiet output: %q", out)
	}
}

func TestRunDetect_JSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "app.log")
	content := "Apr 6 17:13:40 host a\nApr 6 17:13:41 host b\ncontinued\n"
	if err := os.WriteFile(logPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}

	out, err := runDetectCommand(t, "-o", "json", "--all", logPath)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	var got output.Report
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Invalid JSON output: %v\n%s", err, out)
	}
	if got.Format != "Syslog (BSD)" {
		t.Errorf("Expected Syslog (BSD), got %q", got.Format)
	}
	if got.LockedAt != 1 || got.Summary.SampledLines != 3 || got.Summary.TimestampedLines != 2 {
		t.Errorf("Unexpected counts: %+v", got)
	}
	if len(got.Matches) == 0 || got.Matches[0].Name != "Syslog (BSD)" {
		t.Errorf("Unexpected matches: %+v", got.Matches)
	}
}

func TestRunDetect_WriteConfig(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "app.log")
	configPath := filepath.Join(tmpDir, "ziplog.yaml")
	if err := os.WriteFile(logPath, []byte("01:02:03 hello\n"), 0644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}

	out, err := runDetectCommand(t, "-w", configPath, logPath)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(out, "Wrote starter config to: "+configPath) {
		t.Errorf("Expected write confirmation, got:\n%s", out)
	}
	if !strings.Contains(out, "Detected Format: Time of day") {
		t.Errorf("Expected detected format, got:\n%s", out)
	}

	if _, err := runDetectCommand(t, "-w", configPath, logPath); err == nil {
		t.Error("Expected second write to refuse overwriting")
	}
}

func TestRunDetect_Errors(t *testing.T) {
	if _, err := runDetectCommand(t, "/nonexistent/app.log"); err == nil || !strings.Contains(err.Error(), "log file not found") {
		t.Errorf("Expected not-found error, got: %v", err)
	}

	logPath := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(logPath, []byte("x\n"), 0644); err != nil {
		t.Fatalf("Failed to create log file: %v", err)
	}
	if _, err := runDetectCommand(t, "-o", "xml", logPath); err == nil || !strings.Contains(err.Error(), "invalid output format") {
		t.Errorf("Expected output format error, got: %v", err)
	}
}

func TestDetectOptions_Defaults(t *testing.T) {
	cmd := NewDetectCommand()

	format, _ := cmd.Flags().GetString("output")
	if format != "text" {
		t.Errorf("Expected default output 'text', got %q", format)
	}

	sample, _ := cmd.Flags().GetInt("sample")
	if sample != 100 {
		t.Errorf("Expected default sample 100, got %d", sample)
	}

	writeConfig, _ := cmd.Flags().GetString("write-config")
	if writeConfig != "" {
		t.Errorf("Expected default write-config '', got %q", writeConfig)
	}
}
