package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ebb/internal/record"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Limit int
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Display a session file as tables",
		Long: `Render a session file for human inspection: identity fields, the
summary line, and the event records in storage order.

Example:
  ebb show session.ebb
  ebb show session.ebb --limit 20`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many events (0 means all)")

	return cmd
}

func runShow(opts *ShowOptions, path string, cmd *cobra.Command) error {
	records, err := readRecords(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var events [][]string
	for _, r := range records {
		switch r.Kind() {
		case record.KindMeta:
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"},
				metaRows(r),
				[]columnAlignment{alignLeft, alignLeft}))
		case record.KindSummary:
			fmt.Fprintf(out, "Summary: %d events, cursor %d, first %s %s, last %s %s\n",
				paddedInt(get(r, record.KeyRecorder)),
				paddedInt(get(r, record.KeyCursor)),
				get(r, record.KeyFirstDate), get(r, record.KeyFirstTime),
				get(r, record.KeyLastDate), get(r, record.KeyLastTime))
		case record.KindEvent:
			if opts.Limit > 0 && len(events) >= opts.Limit {
				continue
			}
			events = append(events, []string{
				r.Date, r.Time,
				get(r, record.KeyBattery),
				get(r, record.KeyInfrared),
				get(r, record.KeyActuator),
				get(r, record.KeyDecision),
			})
		}
	}

	if len(events) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"Date", "Time", "Battery", "IR", "Actuators", "Decision"},
			events,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}))
	}
	return nil
}

// readRecords tolerantly parses a native file, skipping malformed lines.
func readRecords(path string) ([]record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read file", err)
	}

	var records []record.Record
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r, err := record.Decode(line)
		if err != nil {
			continue
		}
		records = append(records, r)
	}
	if len(records) == 0 {
		return nil, NewExitError(ExitFailure, "no records found in "+path)
	}
	return records, nil
}

func metaRows(r record.Record) [][]string {
	keys := []struct{ key, label string }{
		{record.KeyRobotName, "Robot"},
		{record.KeyRobotVersion, "Version"},
		{record.KeyRobotSerial, "Serial"},
		{record.KeyManufacturer, "Manufacturer"},
		{record.KeyOperator, "Operator"},
		{record.KeyResponsible, "Responsible"},
		{record.KeyRecorder, "Recorder"},
		{record.KeyDate, "Date"},
		{record.KeyTime, "Time"},
	}
	var rows [][]string
	for _, k := range keys {
		if v, ok := r.Get(k.key); ok {
			rows = append(rows, []string{k.label, v})
		}
	}
	return rows
}

func get(r record.Record, key string) string {
	v, _ := r.Get(key)
	return v
}

// paddedInt parses a zero-padded numeric field; unparseable input shows
// as zero rather than failing the whole render.
func paddedInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
