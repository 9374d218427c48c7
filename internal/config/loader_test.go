package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "task", cfg.Types.Default)
	assert.NotEmpty(t, cfg.Types.Tags)
	require.NoError(t, Validate(cfg), "defaults must validate")
}

func TestWriteDefaultThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `storage:
  backend: redis
  redis_addr: redis.local:6379
  key_prefix: "me:"
types:
  default: chore
  tags:
    - name: chore
      color: "10"
    - name: trip
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "redis.local:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, "me:", cfg.Storage.KeyPrefix)
	assert.Equal(t, "~/.smart-tasks.db", cfg.Storage.Path, "unset keys keep defaults")
	assert.Equal(t, []TypeTag{{Name: "chore", Color: "10"}, {Name: "trip"}}, cfg.Types.Tags)

	cat := cfg.Catalog()
	assert.Equal(t, "chore", cat.Default)
	assert.Equal(t, []string{"chore", "trip"}, cat.Names())

	opts := cfg.StorageOptions()
	assert.Equal(t, "redis", opts.Backend)
	assert.Equal(t, "me:", opts.KeyPrefix)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefault(path))

	t.Setenv("SMART_TASKS_STORAGE_PATH", "/tmp/board.db")
	t.Setenv("SMART_TASKS_LOG_LEVEL", "debug")
	t.Setenv("SMART_TASKS_SERVER_ADDR", ":9999")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/board.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: postgres\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Backend")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsCommaInTag(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types.Tags = append(cfg.Types.Tags, TypeTag{Name: "a,b"})
	require.Error(t, Validate(cfg))
}
