package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ebb/internal/archive"
	"ebb/internal/sampler"
	"ebb/internal/sim"
	"ebb/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Output string
	Seed   int64
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Record a live simulated session",
		Long: `Start a recording session against the built-in robot simulator.

The recorder samples the simulator on the configured interval and keeps
the newest events in a bounded circular buffer. On SIGINT/SIGTERM the
session is exported to the output file and, when an archive database is
configured, saved there as well.

Example:
  ebb run --out session.ebb
  ebb run -c ebb.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "out", "", "session output file (overrides config)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "simulator random seed (0 means time-based)")

	return cmd
}

func runSession(opts *RunOptions, cmd *cobra.Command) error {
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
	rec.SetIdentity(cfg.Identity.Identity())
	slog.Info("session started", "session", rec.Session(), "capacity", cfg.Capacity, "interval", cfg.Interval.Std())

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	robot := sim.New(rand.New(rand.NewSource(seed)))
	smp := sampler.New(robot, rec, cfg.Interval.Std())

	// Setup signal handling for graceful shutdown
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	err = smp.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitCommandError, "sampler failed", err)
	}

	snap := rec.Snapshot()
	if err := rec.ExportTo(output); err != nil {
		return WrapExitError(ExitCommandError, "failed to export session", err)
	}
	slog.Info("session exported", "path", output, "events", len(snap.Events), "cursor", snap.Cursor)

	if cfg.Archive != "" {
		if err := saveToArchive(cfg.Archive, rec.Session(), snap); err != nil {
			return err
		}
		slog.Info("session archived", "db", cfg.Archive, "session", rec.Session())
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(fmt.Sprintf("recorded %d events to %s (session %s)", len(snap.Events), output, rec.Session()))
}

func saveToArchive(path, session string, snap store.Snapshot) error {
	db, err := archive.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open archive", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing archive", "error", closeErr)
		}
	}()
	if err := db.SaveSnapshot(context.Background(), session, snap); err != nil {
		return WrapExitError(ExitCommandError, "failed to archive session", err)
	}
	return nil
}
