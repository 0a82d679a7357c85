package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ccollicutt/ziplog/pkg/config"
	"github.com/ccollicutt/ziplog/pkg/detector"
	"github.com/ccollicutt/ziplog/pkg/output"
	"github.com/ccollicutt/ziplog/pkg/parser"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// MergeOptions holds command-line options for merging logs.
type MergeOptions struct {
	Prefix        string
	PrefixedFiles []string
	Interval      string
	Color         string
	ConfigFile    string
	Verbose       bool
	MaxLineSize   int
}

// AddMergeFlags registers the merge flags on cmd.
func AddMergeFlags(cmd *cobra.Command, opts *MergeOptions) {
	cmd.Flags().StringVarP(&opts.Prefix, "prefix", "p", config.DefaultPrefix, "The default prefix to prepend to timestamped lines")
	cmd.Flags().StringArrayVarP(&opts.PrefixedFiles, "prefixed-file", "f", nil, "Log file with its own prefix, as PREFIX=PATH (can be repeated)")
	cmd.Flags().StringVarP(&opts.Interval, "interval", "i", "", "Show interval by seconds (s), or milliseconds (ms)")
	cmd.Flags().StringVar(&opts.Color, "color", config.DefaultColor, "Color source prefixes (auto|always|never)")
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file with defaults and sources")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log format detection and source handling to stderr")
	cmd.Flags().IntVar(&opts.MaxLineSize, "max-line-size", parser.DefaultMaxLine, "Longest accepted line in bytes")
}

// RunMerge merges the requested sources to the command's output.
func RunMerge(cmd *cobra.Command, args []string, opts *MergeOptions) error {
	ExitCode = 0
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	cfg, err := config.Resolve(ctx, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	applyFlagOverrides(cmd, cfg, opts)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	specs, err := sourceSpecs(cfg, args, opts.PrefixedFiles)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		logger.Debug("no log sources given")
		return nil
	}
	if readsStdin(specs) && isTerminal(cmd.InOrStdin()) {
		logger.Warn("reading standard input from the terminal, end it with Ctrl-D")
	}

	var failed []string
	sources, err := parser.Open(specs, cmd.InOrStdin(), detector.DefaultCatalog(),
		parser.WithLogger(logger),
		parser.WithMaxLineSize(opts.MaxLineSize),
		parser.WithReadErrorHandler(func(source string, err error) {
			logger.Warn("source ended on read error", "source", source, "err", err)
			failed = append(failed, source)
		}),
	)
	if err != nil {
		return err
	}

	for _, s := range sources {
		logger.Debug("source opened", "source", s.Name(), "prefix", s.Prefix())
	}

	merged := parser.NewMergedSource(parser.AsLogSources(sources)...)
	defer merged.Close()

	out := cmd.OutOrStdout()
	w := output.NewWriter(out,
		output.WithInterval(cfg.IntervalUnit()),
		output.WithColor(cfg.ColorMode().Enabled(out)),
	)

	n, err := w.Copy(ctx, merged)
	if err != nil {
		return fmt.Errorf("merging logs: %w", err)
	}

	for _, s := range sources {
		if s.Format() == nil {
			logger.Debug("no timestamp format detected", "source", s.Name())
		}
	}
	logger.Debug("merge complete", "lines", n, "sources", len(sources))

	if len(failed) > 0 {
		ExitCode = 1
	}
	return nil
}

// applyFlagOverrides lets explicitly set flags win over the config file
// and the environment.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, opts *MergeOptions) {
	flags := cmd.Flags()
	if flags.Changed("prefix") {
		cfg.Prefix = opts.Prefix
	}
	if flags.Changed("interval") {
		cfg.Interval = opts.Interval
	}
	if flags.Changed("color") {
		cfg.Color = opts.Color
	}
}

func readsStdin(specs []parser.SourceSpec) bool {
	for _, s := range specs {
		if s.IsStdin() {
			return true
		}
	}
	return false
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// sourceSpecs lists sources in attach order: positional files, then
// prefixed files, then config file sources.
func sourceSpecs(cfg *config.Config, args, prefixedFiles []string) ([]parser.SourceSpec, error) {
	var specs []parser.SourceSpec
	for _, path := range args {
		specs = append(specs, parser.SourceSpec{Prefix: cfg.Prefix, Path: path})
	}
	for _, pf := range prefixedFiles {
		specs = append(specs, parser.ParseSourceSpec(pf))
	}

	fromConfig, err := cfg.SourceSpecs()
	if err != nil {
		return nil, fmt.Errorf("expanding config sources: %w", err)
	}
	return append(specs, fromConfig...), nil
}
