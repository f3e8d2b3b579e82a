// Package config manages application configuration from files and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Menu struct {
		Title string `mapstructure:"title" yaml:"title"`
	} `mapstructure:"menu" yaml:"menu"`
	Dialog struct {
		Title  string `mapstructure:"title" yaml:"title"`
		Width  int    `mapstructure:"width" yaml:"width"`
		Height int    `mapstructure:"height" yaml:"height"`
	} `mapstructure:"dialog" yaml:"dialog"`
	Output struct {
		Color bool `mapstructure:"color" yaml:"color"`
		Pager bool `mapstructure:"pager" yaml:"pager"`
	} `mapstructure:"output" yaml:"output"`
	Watch struct {
		DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	} `mapstructure:"watch" yaml:"watch"`
}

var defaults = map[string]any{
	"menu.title":        "Export to JSON",
	"dialog.title":      "Export to JSON",
	"dialog.width":      500,
	"dialog.height":     300,
	"output.color":      true,
	"output.pager":      true,
	"watch.debounce_ms": 500,
}

// Load reads the configuration from ~/.sheetjson/config.yaml and SHEETJSON_* environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())

	for k, v := range defaults {
		viper.SetDefault(k, v)
	}

	viper.SetEnvPrefix("SHEETJSON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (non-fatal if missing)
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if cfg.Dialog.Width <= 0 || cfg.Dialog.Height <= 0 {
		return nil, fmt.Errorf("dialog size must be positive, got %dx%d", cfg.Dialog.Width, cfg.Dialog.Height)
	}

	return &cfg, nil
}

// Set sets a config value and saves to disk. Only known keys are accepted.
func Set(key, value string) error {
	def, ok := defaults[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}

	var v any = value
	switch def.(type) {
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", key, value)
		}
		v = n
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		v = b
	}

	viper.Set(key, v)
	return SaveConfig()
}

// Keys returns the settable configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig deletes the config file and restores defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	for k, v := range defaults {
		viper.Set(k, v)
	}
	return nil
}

// SaveConfig writes the current config to ~/.sheetjson/config.yaml.
func SaveConfig() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig renders the effective configuration as YAML.
func ShowConfig(cfg *Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("could not render config: %w", err)
	}
	return fmt.Sprintf("# %s\n%s", ConfigPath(), data), nil
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sheetjson"
	}
	return filepath.Join(home, ".sheetjson")
}
