package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "16M", cfg.Server.BodyLimit)
	assert.Equal(t, 10000000, cfg.Evaluator.MaxPairs)
	assert.Equal(t, 3e10, cfg.Elastic.Mu)
	assert.Equal(t, 0.25, cfg.Elastic.Nu)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "service.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  addr: 127.0.0.1:9000
  read_timeout: 2s
evaluator:
  workers: 4
elastic:
  nu: 0.3
log:
  format: json
`))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 4, cfg.Evaluator.Workers)
	assert.Equal(t, 3e10, cfg.Elastic.Mu)
	assert.Equal(t, 0.3, cfg.Elastic.Nu)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(writeConfig(t, "elastic:\n  nu: 0.5\n"))
	assert.ErrorContains(t, err, "invalid config")

	_, err = Load(writeConfig(t, "log:\n  format: xml\n"))
	assert.ErrorContains(t, err, "invalid config")

	_, err = Load(writeConfig(t, "server: [\n"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
