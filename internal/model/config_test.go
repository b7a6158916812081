package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "General", cfg.Sections.DefaultName)
	assert.Equal(t, 60, cfg.Notifications.IntervalSec)
	assert.Equal(t, 15, cfg.Notifications.AlertMinutes)
	assert.False(t, cfg.Notifications.SystemAlerts)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sections:
  default_name: Inbox
notifications:
  interval_sec: 30
  alert_minutes: 5
log:
  level: debug
`), 0o644))

	t.Setenv("TASKDASH_NOTIFICATIONS_ALERT_MINUTES", "10")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.Bool("alerts", false, "")
	require.NoError(t, fs.Parse([]string{"--alerts"}))

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "Inbox", cfg.Sections.DefaultName)
	assert.Equal(t, 30, cfg.Notifications.IntervalSec)
	assert.Equal(t, 10, cfg.Notifications.AlertMinutes, "env overrides file")
	assert.True(t, cfg.Notifications.SystemAlerts, "set flag overrides default")
	assert.Equal(t, "debug", cfg.Log.Level, "unset flag leaves file value")
}

func TestLoadConfig_ClampsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sections:
  default_name: "  "
notifications:
  interval_sec: -5
`), 0o644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Notifications.IntervalSec)
	assert.Equal(t, "General", cfg.Sections.DefaultName)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: [\n"), 0o644))

	_, err := LoadConfig(path, nil)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.Sections.DefaultName = "Home"
	cfg.Notifications.AlertMinutes = 20

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Home", loaded.Sections.DefaultName)
	assert.Equal(t, 20, loaded.Notifications.AlertMinutes)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, section := range []string{"sections:", "notifications:", "log:"} {
		assert.Contains(t, string(data), section)
	}
	assert.NotContains(t, string(data), "display:")
}

func TestTask_Due(t *testing.T) {
	task := Task{DueDate: "2026-10-19", DueTime: "14:05"}
	due, ok := task.Due(time.UTC)
	require.True(t, ok)
	assert.Equal(t, 14, due.Hour())
	assert.Equal(t, 5, due.Minute())

	_, ok = Task{DueDate: "2026-10-19"}.Due(time.UTC)
	assert.False(t, ok)
	_, ok = Task{DueDate: "19/10/2026", DueTime: "14:05"}.Due(time.UTC)
	assert.False(t, ok)
}

func TestStatus_Next(t *testing.T) {
	assert.Equal(t, StatusInProgress, StatusPending.Next())
	assert.Equal(t, StatusCompleted, StatusInProgress.Next())
	assert.Equal(t, StatusPending, StatusCompleted.Next())
	assert.False(t, Status("done").Valid())
	assert.False(t, Priority("urgent").Valid())
}
