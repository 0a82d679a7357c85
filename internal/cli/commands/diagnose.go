package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/ziplog/pkg/config"
	"github.com/ccollicutt/ziplog/pkg/detector"
	"github.com/ccollicutt/ziplog/pkg/parser"
)

// Diagnostic statuses.
const (
	statusOK      = "ok"
	statusWarning = "warning"
	statusError   = "error"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose    bool
	SampleSize int
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <config-file>",
		Short: "Check a configuration against the logs it names",
		Long: `Check a configuration against the logs it names.

For every configured source this reports whether the file exists and which
timestamp format merging would lock it to. Sources where no format is
found are merged as untimestamped lines, ahead of every timestamped line.

Example:
  ziplog diagnose ziplog.yaml
  ziplog diagnose -v ziplog.yaml  # show the locking line of each source`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample per source")

	return cmd
}

func runDiagnose(ctx context.Context, out io.Writer, configPath string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	result := checkConfigExists(configPath)
	results = append(results, result)
	if result.Status == statusError {
		printDiagnostics(out, results, opts)
		return nil
	}

	cfg, result := checkConfigParseable(ctx, configPath)
	results = append(results, result)
	if result.Status == statusError {
		printDiagnostics(out, results, opts)
		return nil
	}

	results = append(results, checkSourceFormats(ctx, cfg, opts)...)

	printDiagnostics(out, results, opts)
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Config File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = statusError
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'ziplog detect <log-file> --write-config ziplog.yaml' to generate a starter config",
		}
		return result
	}
	if err != nil {
		result.Status = statusError
		result.Message = fmt.Sprintf("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = statusError
		result.Message = "Path is a directory, not a file"
		return result
	}

	result.Status = statusOK
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config Syntax",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = statusError
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	interval := cfg.Interval
	if interval == "" {
		interval = "off"
	}

	result.Status = statusOK
	result.Message = "Config file parsed successfully"
	result.Details = []string{
		fmt.Sprintf("Sources: %d", len(cfg.Sources)),
		fmt.Sprintf("Interval: %s", interval),
	}
	return cfg, result
}

// checkSourceFormats reports, for every file a configured source expands
// to, the timestamp format merging would lock it to.
func checkSourceFormats(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	if len(cfg.Sources) == 0 {
		return []DiagnosticResult{{
			Check:   "Sources",
			Status:  statusWarning,
			Message: "No sources defined",
			Suggests: []string{
				"Give log files on the command line, or add a sources section",
			},
		}}
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	var results []DiagnosticResult
	for _, src := range cfg.Sources {
		specs, err := parser.ExpandSources([]parser.SourceSpec{{Prefix: src.PrefixOr(cfg.Prefix), Path: src.Path}})
		if err != nil {
			results = append(results, DiagnosticResult{
				Check:   fmt.Sprintf("Source: %s", src.Path),
				Status:  statusError,
				Message: err.Error(),
			})
			continue
		}
		for _, spec := range specs {
			results = append(results, checkSourceFormat(ctx, d, spec))
		}
	}
	return results
}

func checkSourceFormat(ctx context.Context, d *detector.Detector, spec parser.SourceSpec) DiagnosticResult {
	result := DiagnosticResult{
		Check: fmt.Sprintf("Source: %q %s", spec.Prefix, spec.Path),
	}

	if spec.IsStdin() {
		result.Status = statusOK
		result.Message = "Standard input, format detected while merging"
		return result
	}

	info, err := os.Stat(spec.Path)
	if os.IsNotExist(err) {
		result.Status = statusError
		result.Message = "File does not exist"
		result.Suggests = []string{"Check if the log file path or glob is correct"}
		return result
	}
	if err != nil {
		result.Status = statusError
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		return result
	}
	if info.IsDir() {
		result.Status = statusError
		result.Message = "Path is a directory, not a file"
		result.Suggests = []string{"Use a glob pattern, e.g. " + filepath.Join(spec.Path, "*.log")}
		return result
	}

	detResult, err := d.DetectFromFile(ctx, spec.Path)
	if err != nil {
		result.Status = statusError
		result.Message = fmt.Sprintf("Cannot read file: %v", err)
		return result
	}

	sampled := detResult.SampledLines
	switch {
	case sampled == 0:
		result.Status = statusWarning
		result.Message = "File is empty"
	case !detResult.HasMatch():
		result.Status = statusWarning
		result.Message = fmt.Sprintf("No timestamp format found in %d sampled lines", sampled)
		result.Suggests = []string{
			"Every line of this source is merged ahead of all timestamped lines",
		}
	default:
		result.Message = fmt.Sprintf("Locks to %s at line %d (%d/%d sampled lines timestamped)",
			detResult.Locked.Name, detResult.LockedAt, detResult.TimestampedLines, sampled)
		result.Details = []string{
			"Locking line: " + truncate(detResult.SampleLine, 80),
			"Pattern: " + detResult.Locked.PatternStr,
		}
		result.Status = statusOK
		if detResult.TimestampedLines*2 < sampled {
			result.Status = statusWarning
			result.Suggests = []string{
				fmt.Sprintf("Run 'ziplog detect --all %s' to see which other formats match", spec.Path),
			}
		}
	}

	return result
}

func printDiagnostics(out io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(out, "=== ZipLog Configuration Diagnostics ===")
	fmt.Fprintln(out)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case statusOK:
			icon = "PASS"
			okCount++
		case statusWarning:
			icon = "WARN"
			warnCount++
		case statusError:
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(out, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(out, "    %s\n", r.Message)

		if opts.Verbose || r.Status != statusOK {
			for _, d := range r.Details {
				fmt.Fprintf(out, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(out, "      Hint: %s\n", s)
		}

		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "---")
	fmt.Fprintf(out, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(out, "\nFix the errors above before merging.")
	} else if warnCount > 0 {
		fmt.Fprintln(out, "\nConfiguration is usable but has warnings.")
	} else {
		fmt.Fprintln(out, "\nConfiguration looks good!")
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
