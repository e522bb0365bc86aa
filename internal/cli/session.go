package cli

import (
	"log/slog"
	"os"

	"ebb/internal/config"
	"ebb/internal/ingest"
	"ebb/internal/recorder"
)

// loadConfig resolves the effective configuration for a command.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, nil
}

// openSession creates a recorder and, when path names an existing session
// file, reloads its state. A file that parses but holds no event records
// is treated as a fresh session rather than an error, so identity-only
// files reload cleanly.
func openSession(cfg config.Config, path string, opts ...recorder.Option) (*recorder.Recorder, error) {
	rec := recorder.New(cfg.Capacity, opts...)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return rec, nil
		}
		return nil, WrapExitError(ExitCommandError, "failed to stat session file", err)
	}

	if err := rec.ImportFrom(path, ingest.FormatNative); err != nil {
		if ingest.IsMissingRecords(err) {
			slog.Warn("session file has no event records, starting empty", "path", path)
			return rec, nil
		}
		return nil, WrapExitError(ExitCommandError, "failed to reload session file", err)
	}
	slog.Debug("session file reloaded", "path", path, "events", rec.Snapshot().Cursor)
	return rec, nil
}
