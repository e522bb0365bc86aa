package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebb/internal/export"
	"ebb/internal/store"
	"ebb/internal/testutil"
)

func writeSession(t *testing.T, tamper bool) string {
	t.Helper()
	start := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	st := store.New(5, store.WithClock(testutil.NewSteppingClock(start, time.Second)))
	st.SetIdentity(store.Identity{Name: "TurtleBot3"})
	st.AppendEvent(map[string]store.SensorValue{"battery": store.Scalar(80)}, nil, store.Decision{Code: "0001", Reason: "forward"})

	path := filepath.Join(t.TempDir(), "session.ebb")
	require.NoError(t, export.WriteFile(path, st.Snapshot()))

	if tamper {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		tampered := strings.Replace(string(data), "batL:080", "batL:081", 1)
		require.NoError(t, os.WriteFile(path, []byte(tampered), 0o644))
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVerifyCleanFile(t *testing.T) {
	path := writeSession(t, false)
	out, err := execute(t, "verify", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 records verified")
}

func TestVerifyTamperedFile(t *testing.T) {
	path := writeSession(t, true)
	out, err := execute(t, "verify", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "CHECKSUM_MISMATCH")
}

func TestVerifyMissingFile(t *testing.T) {
	_, err := execute(t, "verify", filepath.Join(t.TempDir(), "absent.ebb"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShowRendersTables(t *testing.T) {
	path := writeSession(t, false)
	out, err := execute(t, "show", path)
	require.NoError(t, err)
	assert.Contains(t, out, "TurtleBot3")
	assert.Contains(t, out, "080")
	assert.Contains(t, out, "Summary: 1 events")
}
