package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/ziplog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a ziplog configuration file without merging.

Checks:
  - YAML syntax
  - Interval unit (s or ms) and color mode
  - Every source has a path
  - Log source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	interval := cfg.Interval
	if interval == "" {
		interval = "off"
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Prefix:   %q\n", cfg.Prefix)
	fmt.Fprintf(out, "  Interval: %s\n", interval)
	fmt.Fprintf(out, "  Color:    %s\n", cfg.ColorMode())
	fmt.Fprintf(out, "  Sources:  %d pattern(s)\n", len(cfg.Sources))

	// Check if log sources exist (warnings only)
	specs, err := cfg.SourceSpecs()
	if err != nil {
		fmt.Fprintf(out, "\nWarning: Error expanding source patterns: %v\n", err)
		return nil
	}
	if len(specs) == 0 {
		fmt.Fprintf(out, "\nWarning: No sources configured; give files on the command line\n")
		return nil
	}

	fmt.Fprintf(out, "\nSources:\n")
	for _, s := range specs {
		status := ""
		if !s.IsStdin() {
			if _, err := os.Stat(s.Path); err != nil {
				status = "  (warning: not found)"
			}
		}
		fmt.Fprintf(out, "  - %q %s%s\n", s.Prefix, s.Path, status)
	}

	return nil
}
