// Package archive persists serialized recording sessions in SQLite so
// past sessions survive process restarts and can be re-exported later.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ebb/internal/record"
	"ebb/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// Archive stores snapshots of recording sessions.
// Uses SQLite with WAL mode for concurrent read access.
type Archive struct {
	db *sql.DB
}

// SessionInfo summarizes one archived session.
type SessionInfo struct {
	ID         string
	SavedAt    time.Time
	EventCount int
	Cursor     int64
}

// Open creates or opens the archive database at path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// Safe to call multiple times on the same path.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// SaveSnapshot persists the snapshot under the given session token,
// replacing any lines previously stored for that session. The whole
// write happens in one transaction.
func (a *Archive) SaveSnapshot(ctx context.Context, session string, snap store.Snapshot) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, saved_at, event_count, cursor)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			saved_at = excluded.saved_at,
			event_count = excluded.event_count,
			cursor = excluded.cursor`,
		session, time.Now().UTC().Format(time.RFC3339), len(snap.Events), snap.Cursor)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", session, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE session_id = ?`, session); err != nil {
		return fmt.Errorf("clear session %s: %w", session, err)
	}

	insert, err := tx.PrepareContext(ctx, `
		INSERT INTO records (session_id, position, kind, line)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	pos := 0
	save := func(r record.Record) error {
		_, err := insert.ExecContext(ctx, session, pos, string(r.Kind()), record.Encode(r))
		pos++
		return err
	}

	if snap.Meta != nil {
		if err := save(*snap.Meta); err != nil {
			return fmt.Errorf("save meta record: %w", err)
		}
	}
	if snap.Summary != nil {
		if err := save(*snap.Summary); err != nil {
			return fmt.Errorf("save summary record: %w", err)
		}
	}
	for i, ev := range snap.Events {
		if err := save(ev); err != nil {
			return fmt.Errorf("save event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session %s: %w", session, err)
	}
	return nil
}

// ListSessions returns archived sessions newest first.
func (a *Archive) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, saved_at, event_count, cursor
		FROM sessions
		ORDER BY saved_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var savedAt string
		if err := rows.Scan(&info.ID, &savedAt, &info.EventCount, &info.Cursor); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.SavedAt, err = time.Parse(time.RFC3339, savedAt)
		if err != nil {
			return nil, fmt.Errorf("parse saved_at for %s: %w", info.ID, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Lines returns the canonical lines of one archived session in stored
// order (Meta, Summary, then events).
func (a *Archive) Lines(ctx context.Context, session string) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT line FROM records
		WHERE session_id = ?
		ORDER BY position`, session)
	if err != nil {
		return nil, fmt.Errorf("query records for %s: %w", session, err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("session %s not found", session)
	}
	return lines, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
