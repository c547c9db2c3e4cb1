package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Log      LogConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds logger settings. An empty path discards logs.
type LogConfig struct {
	Path  string
	Level string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	GracePeriod time.Duration `mapstructure:"grace_period"`
	DateFormat  string        `mapstructure:"date_format"`
	Timezone    string
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "watchlist")
}

// DefaultPath is where Load looks when WATCHLIST_CONFIG is unset.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "watchlist", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix WATCHLIST_.
// A non-empty path takes precedence over WATCHLIST_CONFIG.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(dataDir(), "watchlist.db"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "watchlist.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.grace_period", "200ms")
	v.SetDefault("ui.date_format", "02 Jan 15:04")
	v.SetDefault("ui.timezone", "Local")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("WATCHLIST_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("WATCHLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the app cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("config: database.path is empty")
	}
	if c.UI.GracePeriod < 0 {
		return fmt.Errorf("config: ui.grace_period must not be negative (got %s)", c.UI.GracePeriod)
	}
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config: log.level: %w", err)
		}
	}
	return nil
}

// Location resolves UI.Timezone, falling back to time.Local.
func (c Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.UI.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Local, err
	}
	return loc, nil
}

// Save writes cfg to path (DefaultPath when empty), creating the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = os.Getenv("WATCHLIST_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.grace_period", cfg.UI.GracePeriod.String())
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
