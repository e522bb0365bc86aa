package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"ebb/internal/sim"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Output string
	Seed   int64
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Append one sampled event to a session file",
		Long: `Take a single simulator sample and append it to a session file.

The file is reloaded if it exists, so repeated invocations build up one
session incrementally (useful from cron or shell loops).

Example:
  ebb log --out session.ebb`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return logOnce(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "out", "", "session file (overrides config)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "simulator random seed (0 means time-based)")

	return cmd
}

func logOnce(opts *LogOptions, cmd *cobra.Command) error {
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
	if rec.Snapshot().Meta == nil {
		rec.SetIdentity(cfg.Identity.Identity())
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	robot := sim.New(rand.New(rand.NewSource(seed)))
	sensors, actuators, decision := robot.Sample()
	ev := rec.Append(sensors, actuators, decision)

	if err := rec.ExportTo(output); err != nil {
		return WrapExitError(ExitCommandError, "failed to export session", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(fmt.Sprintf("logged event at %s to %s", ev.Timestamp(), output))
}
