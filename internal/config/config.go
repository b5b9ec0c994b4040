package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/utils"
)

// EnvPrefix prefixes every environment override, e.g. HABITUAL_API_URL.
const EnvPrefix = "HABITUAL"

// Config is the user configuration
type Config struct {
	APIURL             string `mapstructure:"api_url" yaml:"api_url"`
	Timezone           string `mapstructure:"timezone" yaml:"timezone"`
	Locale             string `mapstructure:"locale" yaml:"locale"`
	CachePath          string `mapstructure:"cache_path" yaml:"cache_path"`
	RequestTimeoutSec  int    `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
	RefreshIntervalSec int    `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
	Debug              bool   `mapstructure:"debug" yaml:"debug"`
}

var defaults = map[string]interface{}{
	"api_url":              "",
	"timezone":             constants.DefaultTimezone,
	"locale":               constants.DefaultLocale,
	"cache_path":           constants.DefaultCache,
	"request_timeout_sec":  int(constants.DefaultTimeout / time.Second),
	"refresh_interval_sec": 0,
	"debug":                false,
}

// Keys lists the settable configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultPath returns ~/.config/habitual/config.yaml.
func DefaultPath() string {
	return ExpandHome(constants.DefaultCfgFile)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func newViper(path string, env bool) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if !env {
		return v
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// The web client reads the endpoint from GAS_URL
	_ = v.BindEnv("api_url", EnvPrefix+"_API_URL", "GAS_URL")
	return v
}

// Load reads the config file at path, layering a .env file from the working
// directory and HABITUAL_* variables on top. A missing file yields defaults.
func Load(path string) (*Config, error) {
	// Missing .env is the common case
	_ = godotenv.Load()
	return load(path, true)
}

// LoadFile reads only the config file and defaults, ignoring the environment.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, env bool) (*Config, error) {
	v := newViper(path, env)
	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.CachePath = ExpandHome(cfg.CachePath)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func isNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	if _, ok := err.(*os.PathError); ok {
		return true
	}
	return os.IsNotExist(err)
}

// Validate checks field ranges and the timezone name.
func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if c.RequestTimeoutSec < 0 {
		return fmt.Errorf("request_timeout_sec must not be negative")
	}
	if c.RefreshIntervalSec < 0 {
		return fmt.Errorf("refresh_interval_sec must not be negative")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// RequestTimeout returns the HTTP timeout, falling back to the default.
func (c *Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSec <= 0 {
		return constants.DefaultTimeout
	}
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// RefreshInterval returns the auto refresh period, zero when disabled.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// Get returns the string form of a key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "timezone":
		return c.Timezone, nil
	case "locale":
		return c.Locale, nil
	case "cache_path":
		return c.CachePath, nil
	case "request_timeout_sec":
		return strconv.Itoa(c.RequestTimeoutSec), nil
	case "refresh_interval_sec":
		return strconv.Itoa(c.RefreshIntervalSec), nil
	case "debug":
		return strconv.FormatBool(c.Debug), nil
	}
	return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
}

// Set parses value into the field named by key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = value
	case "timezone":
		if !utils.ValidateTimezone(value) {
			return fmt.Errorf("invalid timezone %q", value)
		}
		c.Timezone = value
	case "locale":
		c.Locale = value
	case "cache_path":
		c.CachePath = value
	case "request_timeout_sec", "refresh_interval_sec":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
		}
		if key == "request_timeout_sec" {
			c.RequestTimeoutSec = n
		} else {
			c.RefreshIntervalSec = n
		}
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug must be true or false, got %q", value)
		}
		c.Debug = b
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

// Save writes cfg to path as YAML, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for _, key := range Keys() {
		val, _ := cfg.Get(key)
		v.Set(key, val)
	}
	v.Set("request_timeout_sec", cfg.RequestTimeoutSec)
	v.Set("refresh_interval_sec", cfg.RefreshIntervalSec)
	v.Set("debug", cfg.Debug)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
