package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRecordsAndExports(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "session.ebb")
	cfgPath := filepath.Join(dir, "ebb.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("interval: 10ms\ncapacity: 50\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "-c", cfgPath, "--out", out, "--seed", "42"})

	require.NoError(t, cmd.ExecuteContext(ctx))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "MD ")
	assert.Contains(t, string(data), "DD ")
}

func TestRunArchivesSession(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "session.ebb")
	db := filepath.Join(dir, "archive.db")
	cfgPath := filepath.Join(dir, "ebb.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("interval: 10ms\narchive: "+db+"\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "-c", cfgPath, "--out", out, "--seed", "42"})
	require.NoError(t, cmd.ExecuteContext(ctx))

	stdout, err := execute(t, "sessions", "--db", db)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "no archived sessions")
}

func TestLogCommandAppends(t *testing.T) {
	out := filepath.Join(t.TempDir(), "session.ebb")

	_, err := execute(t, "log", "--out", out, "--seed", "1")
	require.NoError(t, err)
	_, err = execute(t, "log", "--out", out, "--seed", "2")
	require.NoError(t, err)

	records, readErr := readRecords(out)
	require.NoError(t, readErr)

	events := 0
	for _, r := range records {
		if r.Kind() == "RD" {
			events++
		}
	}
	assert.Equal(t, 2, events)
}
