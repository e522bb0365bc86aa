package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ebb/internal/archive"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Session  string
	Output   string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an archived session back to a file",
		Long: `Re-export an archived session from the archive database.

The session's canonical lines are written in stored order as one atomic
file write.

Example:
  ebb export --db archive.db --session 0190a5... --out restored.ebb`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to archive database (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to export (required)")
	cmd.Flags().StringVar(&opts.Output, "out", "", "destination file (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	db, err := archive.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open archive", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing archive", "error", closeErr)
		}
	}()

	lines, err := db.Lines(context.Background(), opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read archived session", err)
	}

	if err := writeLines(opts.Output, lines); err != nil {
		return WrapExitError(ExitCommandError, "failed to write export file", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(fmt.Sprintf("exported session %s (%d records) to %s", opts.Session, len(lines), opts.Output))
}

// writeLines writes the lines newline-terminated via temp file and rename,
// same atomicity contract as a live session export.
func writeLines(path string, lines []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ebb-export-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	data := strings.Join(lines, "\n") + "\n"
	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
