package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "TASKTRACKER"

// Load merges, in increasing precedence: defaults, the YAML file at path
// (or the global config file when path is empty and it exists), a .env
// file in the working directory and TASKTRACKER_* environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()

	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if global := GlobalConfigPath(); global != "" {
			if _, err := os.Stat(global); err == nil {
				path = global
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Keys must be known to viper for AutomaticEnv to reach Unmarshal.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.data_dir", cfg.Storage.DataDir)
	v.SetDefault("storage.active_file", cfg.Storage.ActiveFile)
	v.SetDefault("storage.completed_file", cfg.Storage.CompletedFile)
	v.SetDefault("storage.sqlite_path", cfg.Storage.SQLitePath)
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("telegram.token", cfg.Telegram.Token)
	v.SetDefault("telegram.debug", cfg.Telegram.Debug)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("theme.dark", cfg.Theme.Dark)
}

// GlobalConfigPath returns ~/.tasktracker/config.yaml, or "" without a home directory.
func GlobalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tasktracker", "config.yaml")
}
