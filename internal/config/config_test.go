package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "time/tzdata"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ROOTED_DB", "ROOTED_TZ", "ROOTED_LOG_LEVEL", "ROOTED_LOG_FORMAT", "ROOTED_CONFIG"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROOTED_DB", "/tmp/x.db")
	t.Setenv("ROOTED_TZ", "Asia/Tokyo")
	t.Setenv("ROOTED_LOG_LEVEL", "debug")
	t.Setenv("ROOTED_LOG_FORMAT", "json")

	cfg := ConfigFromEnv()
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "Asia/Tokyo", cfg.TimeZone)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "star", cfg.NumericMode)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("time_zone: America/New_York\nnumeric_mode: score\nlog_level: info\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", cfg.TimeZone)
	assert.Equal(t, "score", cfg.NumericMode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)

	// Environment wins over the file.
	t.Setenv("ROOTED_TZ", "Europe/Berlin")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", cfg.TimeZone)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "time_zone: [oops"},
		{"unknown zone", "time_zone: Mars/Olympus"},
		{"bad level", "log_level: loud"},
		{"bad format", "log_format: xml"},
		{"bad numeric mode", "numeric_mode: tap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROOTED_CONFIG", "/etc/rooted.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/rooted.yaml", p)

	t.Setenv("ROOTED_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "rooted", "config.yaml"), p)
}
