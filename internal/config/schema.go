package config

// Config is the complete Smart Tasks configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage" validate:"required"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Types   TypesConfig   `mapstructure:"types" yaml:"types" validate:"required"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
}

// StorageConfig selects where the board is persisted.
type StorageConfig struct {
	Backend   string `mapstructure:"backend" yaml:"backend" validate:"oneof=sqlite redis"`
	Path      string `mapstructure:"path" yaml:"path"`
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int    `mapstructure:"redis_db" yaml:"redis_db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File receives log output; empty means stderr (and nothing while the TUI runs).
	File string `mapstructure:"file" yaml:"file"`
}

// TypesConfig is the open set of entry tags and their colors.
type TypesConfig struct {
	Default string    `mapstructure:"default" yaml:"default" validate:"required"`
	Tags    []TypeTag `mapstructure:"tags" yaml:"tags" validate:"min=1,dive"`
}

type TypeTag struct {
	Name  string `mapstructure:"name" yaml:"name" validate:"required,excludesall=0x2C"`
	Color string `mapstructure:"color" yaml:"color"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required"`
}
