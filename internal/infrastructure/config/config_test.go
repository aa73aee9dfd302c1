package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "http://localhost:8000", cfg.Server.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.Server.Timeout)
	assert.Empty(t, cfg.Upload.WatchDir)
	assert.Equal(t, 500*time.Millisecond, cfg.Upload.DebounceDelay)
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  base_url: http://backend:9000
  timeout: 30s
upload:
  watch_dir: /tmp/drop
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("DOCCHAT_CONFIG", path)
	t.Setenv("DOCCHAT_SERVER_URL", "")
	t.Setenv("DOCCHAT_SERVER_TIMEOUT", "")
	t.Setenv("DOCCHAT_WATCH_DIR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000", cfg.Server.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "/tmp/drop", cfg.Upload.WatchDir)
	// 文件未覆盖的字段保留默认值
	assert.Equal(t, 500*time.Millisecond, cfg.Upload.DebounceDelay)
}

func TestEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  base_url: http://backend:9000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("DOCCHAT_CONFIG", path)
	t.Setenv("DOCCHAT_SERVER_URL", "http://override:8080")
	t.Setenv("DOCCHAT_SERVER_TIMEOUT", "15s")
	t.Setenv("DOCCHAT_WATCH_DIR", "/tmp/watched")

	cfg, err := Load()
	require.NoError(t, err)

	// 环境变量优先于文件
	assert.Equal(t, "http://override:8080", cfg.Server.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "/tmp/watched", cfg.Upload.WatchDir)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("DOCCHAT_CONFIG", "/nonexistent/config.yaml")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))

	t.Setenv("DOCCHAT_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
