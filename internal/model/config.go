package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// APIConfig holds the connection settings for the site API.
type APIConfig struct {
	// BaseURL is the root of the HTTP API (e.g. https://miwi.tv/api).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// WebsocketHost overrides the host used for the status channel.
	// Empty means: derive it from BaseURL.
	WebsocketHost string `mapstructure:"websocket_host" yaml:"websocket_host"`

	// WebsocketEnabled controls whether the status channel is opened.
	WebsocketEnabled bool `mapstructure:"websocket_enabled" yaml:"websocket_enabled"`
}

// WebsocketBase returns the URL the status channel address is derived
// from: WebsocketHost when set, BaseURL otherwise.
func (c APIConfig) WebsocketBase() string {
	if c.WebsocketHost != "" {
		return c.WebsocketHost
	}
	return c.BaseURL
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme              string `mapstructure:"theme" yaml:"theme"`
	RefreshIntervalSec int    `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`

	// Debug enables verbose logging to the log file.
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/fanclient/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "fanclient", "config.yaml")
}

// DefaultDataPath returns the default path for the local state database.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "fanclient.db")
	}
	return filepath.Join(home, ".local", "share", "fanclient", "fanclient.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:          "https://miwi.tv/api",
			WebsocketEnabled: true,
		},
		Display: DisplayConfig{
			Theme:              "default",
			RefreshIntervalSec: 120,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("api.base_url", "https://miwi.tv/api")
	v.SetDefault("api.websocket_enabled", true)
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.refresh_interval_sec", 120)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("display", cfg.Display)
	v.Set("debug", cfg.Debug)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
