package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"smarttasks/internal/engine"
	"smarttasks/internal/storage"
)

// EnvPrefix namespaces environment overrides, e.g. SMART_TASKS_STORAGE_BACKEND.
const EnvPrefix = "SMART_TASKS"

// Load merges configuration from the global file, then the project file (or
// explicit when non-empty), then environment variables, over DefaultConfig.
func Load(explicit string) (*Config, error) {
	cfg := DefaultConfig()

	if explicit != "" {
		if err := loadFile(explicit, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", explicit, err)
		}
	} else {
		for _, path := range []string{GlobalConfigPath(), ProjectConfigPath()} {
			if path == "" {
				continue
			}
			if err := loadFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}
	// A configured tag list replaces the defaults instead of merging by position.
	if v.IsSet("types.tags") {
		cfg.Types.Tags = nil
	}

	return v.Unmarshal(cfg)
}

var envKeys = []string{
	"storage.backend",
	"storage.path",
	"storage.redis_addr",
	"storage.redis_db",
	"storage.key_prefix",
	"log.level",
	"log.file",
	"types.default",
	"server.addr",
}

func applyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	if s := v.GetString("storage.backend"); s != "" {
		cfg.Storage.Backend = s
	}
	if s := v.GetString("storage.path"); s != "" {
		cfg.Storage.Path = s
	}
	if s := v.GetString("storage.redis_addr"); s != "" {
		cfg.Storage.RedisAddr = s
	}
	if v.IsSet("storage.redis_db") {
		cfg.Storage.RedisDB = v.GetInt("storage.redis_db")
	}
	if s := v.GetString("storage.key_prefix"); s != "" {
		cfg.Storage.KeyPrefix = s
	}
	if s := v.GetString("log.level"); s != "" {
		cfg.Log.Level = s
	}
	if s := v.GetString("log.file"); s != "" {
		cfg.Log.File = s
	}
	if s := v.GetString("types.default"); s != "" {
		cfg.Types.Default = s
	}
	if s := v.GetString("server.addr"); s != "" {
		cfg.Server.Addr = s
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Catalog converts the configured tags for the engine.
func (c *Config) Catalog() engine.TypeCatalog {
	tags := make([]engine.TypeTag, 0, len(c.Types.Tags))
	for _, t := range c.Types.Tags {
		tags = append(tags, engine.TypeTag{Name: strings.TrimSpace(t.Name), Color: t.Color})
	}
	return engine.TypeCatalog{Default: strings.TrimSpace(c.Types.Default), Tags: tags}
}

// StorageOptions converts the storage section for storage.OpenKV.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:   c.Storage.Backend,
		Path:      c.Storage.Path,
		RedisAddr: c.Storage.RedisAddr,
		RedisDB:   c.Storage.RedisDB,
		KeyPrefix: c.Storage.KeyPrefix,
	}
}

// GlobalConfigPath returns the path to the global config file
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".smart-tasks", "config.yaml")
}

// ProjectConfigPath returns the path to the project config file
func ProjectConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".smart-tasks", "config.yaml")
}
