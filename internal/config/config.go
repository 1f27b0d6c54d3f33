package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	UI      UIConfig      `mapstructure:"ui"`
	Session SessionConfig `mapstructure:"session"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the backend API configuration
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`        // e.g. https://api.example.com/api/v1
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // per-request HTTP timeout
}

// UIConfig holds dashboard preferences
type UIConfig struct {
	PageSize int    `mapstructure:"page_size"` // rows per table page
	Theme    string `mapstructure:"theme"`
}

// SessionConfig holds session persistence configuration
type SessionConfig struct {
	File string `mapstructure:"file"` // bolt database path; empty = memory only
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "",
			TimeoutSeconds: 30,
		},
		UI: UIConfig{
			PageSize: 10,
			Theme:    "default",
		},
		Session: SessionConfig{
			File: defaultSessionPath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "avicena", "avicena.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "avicena", "avicena.log")
	}
}

// defaultSessionPath returns the default session database path for the current OS
func defaultSessionPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "avicena", "session.db")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "avicena", "session.db")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "avicena")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "avicena")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("AVICENA")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("api.base_url", cfg.API.BaseURL)
	viper.Set("api.timeout_seconds", cfg.API.TimeoutSeconds)

	viper.Set("ui.page_size", cfg.UI.PageSize)
	viper.Set("ui.theme", cfg.UI.Theme)

	viper.Set("session.file", cfg.Session.File)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the API base URL is set
func (c *Config) IsConfigured() bool {
	return c.API.BaseURL != ""
}
