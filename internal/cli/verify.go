package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ebb/internal/record"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
}

// verifyResult is the JSON payload of a verify run.
type verifyResult struct {
	Path       string   `json:"path"`
	Records    int      `json:"records"`
	Malformed  int      `json:"malformed"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check the integrity codes of a session file",
		Long: `Recompute the integrity code of every record in a session file and
compare it to the stored one. Exits non-zero when any record fails.

Example:
  ebb verify session.ebb`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	return cmd
}

func runVerify(opts *VerifyOptions, path string, cmd *cobra.Command) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read file", err)
	}

	result := verifyResult{Path: path}
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r, err := record.Decode(line)
		if err != nil {
			result.Malformed++
			continue
		}
		result.Records++
		if err := record.VerifyChecksum(r); err != nil {
			result.Mismatches = append(result.Mismatches, fmt.Sprintf("line %d: %v", i+1, err))
		}
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if len(result.Mismatches) > 0 {
		_ = formatter.Error("CHECKSUM_MISMATCH",
			fmt.Sprintf("%d of %d records failed verification", len(result.Mismatches), result.Records),
			result.Mismatches)
		return NewExitError(ExitFailure, fmt.Sprintf("%d checksum mismatches in %s", len(result.Mismatches), path))
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("%s: %d records verified, %d malformed lines skipped", path, result.Records, result.Malformed))
}
