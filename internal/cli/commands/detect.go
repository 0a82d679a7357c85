package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/ziplog/pkg/config"
	"github.com/ccollicutt/ziplog/pkg/detector"
	"github.com/ccollicutt/ziplog/pkg/output"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	ShowAll     bool
	Quiet       bool
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Show which timestamp format a log file locks to",
		Long: `Sample the head of a log file and report the timestamp format ziplog
would detect for it when merging.

The first line matching any known format decides the format for the whole
file. The report shows that line, how many sampled lines carry a timestamp
in the detected format, and with --all, every format that matched any line.

Optionally writes a starter config listing the file with --write-config.

Example:
  ziplog detect /var/log/syslog
  ziplog detect --sample 500 --all app.log
  ziplog detect -q -o json app.log
  ziplog detect -w ziplog.yaml app.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of lines to sample")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show every format that matched, not just the detected one")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Print a one-line summary only")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		ShowAll: opts.ShowAll,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	// Check file exists
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	d := detector.New(detector.WithSampleSize(opts.SampleSize))

	result, err := d.DetectFromFile(ctx, logFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	out := cmd.OutOrStdout()

	// Write config file if requested
	if opts.WriteConfig != "" {
		if err := writeStarterConfig(result, logFile, opts.WriteConfig); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote starter config to: %s\n\n", opts.WriteConfig)
	}

	if err := formatter.Format(ctx, output.NewReport(result, logFile), out); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}

// writeStarterConfig writes a config file listing logFile as a source.
func writeStarterConfig(result *detector.DetectionResult, logFile, configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s (will not overwrite)", configPath)
	}

	content, err := generateStarterConfig(result, logFile)
	if err != nil {
		return err
	}

	// #nosec G306 - config file doesn't need restrictive permissions
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateStarterConfig renders a YAML config naming logFile.
func generateStarterConfig(result *detector.DetectionResult, logFile string) ([]byte, error) {
	// Get absolute path for log file if possible
	absLogFile := logFile
	if abs, err := filepath.Abs(logFile); err == nil {
		absLogFile = abs
	}

	prefix := filepath.Base(logFile) + " "
	cfg := config.DefaultConfig()
	cfg.Sources = []config.SourceConfig{{Path: absLogFile, Prefix: &prefix}}

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}

	detected := "none"
	if result.HasMatch() {
		detected = fmt.Sprintf("%s (%.0f%% of sampled lines)", result.Locked.Name, result.Coverage()*100)
	}

	header := fmt.Sprintf(`# ziplog configuration
# Generated by: ziplog detect
# Detected format: %s
#
# Add more sources, globs are allowed:
#   - path: /var/log/myapp/*.log
#     prefix: "app "
# Show time between lines with: interval: ms

`, detected)

	return append([]byte(header), body...), nil
}
