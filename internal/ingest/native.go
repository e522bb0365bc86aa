package ingest

import (
	"log/slog"
	"strings"

	"ebb/internal/record"
)

// Native parses canonical-format text and, if validation passes, replaces
// the store's state wholesale: event buffer = imported events, cursor =
// imported event count, Meta/Summary = first imported of each kind.
//
// Parsing is partial-failure tolerant: a line that fails to decode is
// logged with its line number and skipped, and parsing continues. The
// import as a whole fails only when zero Event-kind records survive (or,
// with checksum verification enabled, when any stored checksum does not
// match its content). On failure the store is left unmodified.
func (imp *Importer) Native(text string) error {
	var (
		events  []record.Record
		meta    *record.Record
		summary *record.Record
	)

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r, err := record.Decode(line)
		if err != nil {
			slog.Warn("skipping malformed record line", "line", i+1, "error", err)
			continue
		}

		if err := record.VerifyChecksum(r); err != nil {
			if imp.verify {
				return &ImportError{Code: ErrCodeChecksum, Message: "record failed checksum verification", Line: i + 1, Err: err}
			}
			slog.Warn("record checksum does not match content", "line", i+1, "error", err)
		}

		switch r.Kind() {
		case record.KindEvent:
			events = append(events, r)
		case record.KindMeta:
			if meta == nil {
				m := r
				meta = &m
			}
		case record.KindSummary:
			if summary == nil {
				d := r
				summary = &d
			}
		}
	}

	if len(events) == 0 {
		return newError(ErrCodeMissingRecords, "no event records in imported data")
	}

	imp.store.Replace(events, meta, summary)
	return nil
}
