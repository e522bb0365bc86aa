package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ebb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 1000, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.Interval.Std())
	assert.Equal(t, "ebb-session.ebb", cfg.Output)
	assert.Empty(t, cfg.Archive)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
capacity: 50
interval: 500ms
output: robot.ebb
archive: archive.db
identity:
  robot_name: TurtleBot3
  serial: TB3-0042
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Capacity)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval.Std())
	assert.Equal(t, "robot.ebb", cfg.Output)
	assert.Equal(t, "archive.db", cfg.Archive)
	assert.Equal(t, "TurtleBot3", cfg.Identity.RobotName)

	id := cfg.Identity.Identity()
	assert.Equal(t, "TurtleBot3", id.Name)
	assert.Equal(t, "TB3-0042", id.Serial)
	assert.Empty(t, id.Operator, "unset attributes stay empty until store defaults apply")
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "capacity: 7\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.Interval.Std())
	assert.Equal(t, "ebb-session.ebb", cfg.Output)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "capcity: 50\n")
	_, err := Load(path)
	assert.Error(t, err, "typoed keys must not be silently ignored")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, "interval: fast\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.Capacity = 0 }},
		{"negative capacity", func(c *Config) { c.Capacity = -1 }},
		{"zero interval", func(c *Config) { c.Interval = 0 }},
		{"empty output", func(c *Config) { c.Output = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
