package config

import (
	"fmt"

	"tasktracker/internal/logger"
	"tasktracker/internal/storage"
)

// Config is the merged tracker configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	Telegram TelegramConfig `yaml:"telegram" mapstructure:"telegram"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Theme    ThemeConfig    `yaml:"theme" mapstructure:"theme"`
}

// StorageConfig selects where the two task lists live.
type StorageConfig struct {
	// json or sqlite
	Backend       string `yaml:"backend" mapstructure:"backend"`
	DataDir       string `yaml:"data_dir" mapstructure:"data_dir"`
	ActiveFile    string `yaml:"active_file" mapstructure:"active_file"`
	CompletedFile string `yaml:"completed_file" mapstructure:"completed_file"`
	// Defaults to <data_dir>/tasktracker.db
	SQLitePath string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

type TelegramConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
	Debug bool   `yaml:"debug" mapstructure:"debug"`
}

type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// ThemeConfig sets the theme a session starts with. Toggling it at runtime
// is never written back.
type ThemeConfig struct {
	Dark bool `yaml:"dark" mapstructure:"dark"`
}

func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:       storage.BackendJSON,
			DataDir:       ".",
			ActiveFile:    storage.DefaultActiveFile,
			CompletedFile: storage.DefaultCompletedFile,
		},
		HTTP: HTTPConfig{
			Addr: "127.0.0.1:8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendJSON, storage.BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q",
			storage.BackendJSON, storage.BackendSQLite, c.Storage.Backend)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:       c.Storage.Backend,
		DataDir:       c.Storage.DataDir,
		ActiveFile:    c.Storage.ActiveFile,
		CompletedFile: c.Storage.CompletedFile,
		SQLitePath:    c.Storage.SQLitePath,
	}
}

func (c *Config) LogLevel() logger.Level {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}
