package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ebb/internal/ingest"
	"ebb/internal/recorder"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	InputFormat string
	Output      string
	Verify      bool
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import records from native, CSV, or JSON data",
		Long: `Import a data file into a session file.

Native imports replace the session wholesale and fail without touching
it if the file holds no event records. CSV and JSON imports append into
the existing session event by event; when the session file already
exists it is reloaded first so the new events land on top.

Example:
  ebb import telemetry.csv --out session.ebb
  ebb import backup.ebb --out session.ebb --verify`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.InputFormat, "input-format", "auto", "input format (auto|native|csv|json)")
	cmd.Flags().StringVar(&opts.Output, "out", "", "session file to import into (overrides config)")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "reject records with checksum mismatches")

	return cmd
}

func runImport(opts *ImportOptions, input string, cmd *cobra.Command) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}
	output := cfg.Output
	if opts.Output != "" {
		output = opts.Output
	}

	format, err := ingest.ParseFormat(opts.InputFormat)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid format flag", err)
	}

	rec, err := openSession(cfg, output, recorder.WithChecksumVerification(opts.Verify))
	if err != nil {
		return err
	}

	if err := rec.ImportFrom(input, format); err != nil {
		code := string(ingest.CodeOf(err))
		if code == "" {
			code = "IMPORT_ERROR"
		}
		formatter := &OutputFormatter{Format: opts.RootOptions.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "import failed", err)
	}

	if err := rec.ExportTo(output); err != nil {
		return WrapExitError(ExitCommandError, "failed to export session", err)
	}

	snap := rec.Snapshot()
	formatter := &OutputFormatter{Format: opts.RootOptions.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(fmt.Sprintf("imported %s into %s (%d events)", input, output, len(snap.Events)))
}
