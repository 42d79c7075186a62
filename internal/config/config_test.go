package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studytrack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvAddress, "")

	cfg := Default()
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, filepath.Join(home, ".studytrack", "studytrack.db"), cfg.Database.Path)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvAddress, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvAddress, "")
	t.Setenv("STUDY_PORT", "9090")

	path := writeConfig(t, `
server:
  address: "127.0.0.1:${STUDY_PORT}"
  write_timeout: 5s
database:
  path: /tmp/study.db
  log_queries: true
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/tmp/study.db", cfg.Database.Path)
	assert.True(t, cfg.Database.LogQueries)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvDBPath, "/var/lib/study.db")
	t.Setenv(EnvAddress, ":7000")

	path := writeConfig(t, "database:\n  path: /tmp/ignored.db\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/study.db", cfg.Database.Path)
	assert.Equal(t, ":7000", cfg.Server.Address)
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDBPath, "")

	path := writeConfig(t, "database:\n  path: ~/data/study.db\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "study.db"), cfg.Database.Path)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "server: [", wantErr: "parsing config"},
		{name: "bad level", content: "log:\n  level: loud\n", wantErr: "log.level"},
		{name: "bad format", content: "log:\n  format: xml\n", wantErr: "log.format"},
		{name: "negative pool", content: "database:\n  max_open_conns: -2\n", wantErr: "max_open_conns"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"), "json handler output: %s", out)
	assert.Contains(t, out, `"key":"value"`)

	level, err := LogConfig{Level: "error"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, level)
}
