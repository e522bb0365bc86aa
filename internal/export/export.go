// Package export serializes a store snapshot to the canonical text
// format: Meta line, Summary line, then every Event line in buffer
// storage order, each newline-terminated.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"ebb/internal/record"
	"ebb/internal/store"
)

// Serialize renders the snapshot as canonical UTF-8 text. Absent Meta or
// Summary records are skipped rather than emitted empty.
func Serialize(snap store.Snapshot) []byte {
	var b bytes.Buffer
	if snap.Meta != nil {
		b.WriteString(record.Encode(*snap.Meta))
		b.WriteByte('\n')
	}
	if snap.Summary != nil {
		b.WriteString(record.Encode(*snap.Summary))
		b.WriteByte('\n')
	}
	for _, ev := range snap.Events {
		b.WriteString(record.Encode(ev))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// WriteFile serializes the snapshot and writes it as one atomic file
// write: the complete bytes land in a temp file in the destination
// directory, which is then renamed over the target. No chunking, no
// streaming; on failure the target keeps its previous content.
func WriteFile(path string, snap store.Snapshot) error {
	data := Serialize(snap)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ebb-export-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s into place: %w", tmpName, err)
	}
	return nil
}
