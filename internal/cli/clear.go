package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Output string
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the event buffer of a session file",
		Long: `Remove all event records from a session file. The identity and summary
records are kept; the cursor resets to zero.

Example:
  ebb clear --out session.ebb`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "out", "", "session file (overrides config)")

	return cmd
}

func runClear(opts *ClearOptions, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	output := cfg.Output
	if opts.Output != "" {
		output = opts.Output
	}

	rec, err := openSession(cfg, output)
	if err != nil {
		return err
	}
	before := len(rec.Snapshot().Events)
	rec.Clear()

	if err := rec.ExportTo(output); err != nil {
		return WrapExitError(ExitCommandError, "failed to export session", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(fmt.Sprintf("cleared %d events from %s", before, output))
}
