package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default demo account identity. Every simulated message is addressed
// to this account unless configured otherwise.
const (
	DefaultAccountName  = "DarkMail User"
	DefaultAccountEmail = "user@example.com"
)

// AccountConfig holds the demo account identity used for composing
// and "sending" mail. There is no real account behind it.
type AccountConfig struct {
	// Name is the display name used on outgoing messages.
	Name string `mapstructure:"name" yaml:"name"`

	// Email is the address used on outgoing messages.
	Email string `mapstructure:"email" yaml:"email"`

	// Signature is appended to composed messages when non-empty.
	Signature string `mapstructure:"signature" yaml:"signature"`
}

// AssistantConfig holds settings for the simulated assistant features.
type AssistantConfig struct {
	// Enabled toggles all assistant panels and suggestions.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// LatencyMS is the cosmetic "thinking" delay applied in the UI
	// before simulated results appear. It never affects results.
	LatencyMS int `mapstructure:"latency_ms" yaml:"latency_ms"`
}

// CalendarConfig holds calendar and extraction preferences.
type CalendarConfig struct {
	// DefaultReminderMin is the reminder lead time for new events.
	DefaultReminderMin int `mapstructure:"default_reminder_min" yaml:"default_reminder_min"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Account   AccountConfig   `mapstructure:"account" yaml:"account"`
	Assistant AssistantConfig `mapstructure:"assistant" yaml:"assistant"`
	Calendar  CalendarConfig  `mapstructure:"calendar" yaml:"calendar"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/darkmail/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "darkmail", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Account: AccountConfig{
			Name:  DefaultAccountName,
			Email: DefaultAccountEmail,
		},
		Assistant: AssistantConfig{
			Enabled:   true,
			LatencyMS: 1500,
		},
		Calendar: CalendarConfig{
			DefaultReminderMin: DefaultReminderMinutes,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("account.name", DefaultAccountName)
	v.SetDefault("account.email", DefaultAccountEmail)
	v.SetDefault("assistant.enabled", true)
	v.SetDefault("assistant.latency_ms", 1500)
	v.SetDefault("calendar.default_reminder_min", DefaultReminderMinutes)
	v.SetDefault("display.theme", "default")

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

	v.Set("account", cfg.Account)
	v.Set("assistant", cfg.Assistant)
	v.Set("calendar", cfg.Calendar)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
