// Package cli provides the command-line interface for ziplog.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/ziplog/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command. Run without a
// subcommand, it merges the given logs.
func NewRootCommand() *cobra.Command {
	opts := &commands.MergeOptions{}

	rootCmd := &cobra.Command{
		Use:   "ziplog [flags] [FILE...]",
		Short: "ZipLog - merge logs by timestamps",
		Long: `ZipLog merges log files into one stream ordered by timestamp.

Each file's timestamp format is detected from its first timestamped line
and used for the rest of the file. Lines without a timestamp (stack
traces, continuation lines) keep their place after the line before them
and are shown behind blank padding instead of the file's prefix.

Use "-" to read standard input. A file literally named like a subcommand
must be given with a path, e.g. ./detect.

Exit codes:
  0 - Logs merged
  1 - Logs merged, but a source ended on a read error
  2 - Configuration or runtime error

Example:
  ziplog app.log db.log
  ziplog -i ms -f "web =/var/log/nginx/access.log" -f "api =/var/log/api.log"
  journalctl -o short | ziplog -p "sys " - -f "app =app.log"`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunMerge(cmd, args, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.AddMergeFlags(rootCmd, opts)

	// Add subcommands
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
