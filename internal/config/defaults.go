package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   "sqlite",
			Path:      "~/.smart-tasks.db",
			RedisAddr: "localhost:6379",
		},
		Log: LogConfig{
			Level: "info",
		},
		Types: TypesConfig{
			Default: "task",
			Tags: []TypeTag{
				{Name: "task", Color: "63"},
				{Name: "event", Color: "205"},
				{Name: "meeting", Color: "214"},
				{Name: "personal", Color: "42"},
				{Name: "deadline", Color: "196"},
			},
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

const defaultHeader = `# Smart Tasks configuration
# storage.backend: "sqlite" (local file) or "redis"
# types.tags: the tags offered by the entry editor; colors are ANSI 256 codes
`

// WriteDefault writes the default configuration to path, creating parent
// directories.
func WriteDefault(path string) error {
	return Write(path, DefaultConfig())
}

// Write stores cfg as YAML at path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, append([]byte(defaultHeader), data...), 0o644)
}
