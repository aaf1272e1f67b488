// Package config provides persistent configuration for the vaktija CLI.
//
// Configuration is stored as JSON at ~/.config/vaktija/config.json
// (XDG-compliant). The merge priority is: CLI flags > VAKTIJA_* environment
// (including a .env file) > config file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

const (
	configDirName  = "vaktija"
	configFileName = "config.json"

	// EnvPrefix is prepended to upper-cased keys for environment overrides,
	// e.g. VAKTIJA_LOCATION.
	EnvPrefix = "VAKTIJA_"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"location", "zone",
	"timetable", "times",
	"lead_minutes",
	"auto_theme", "theme",
	"time_format",
	"notify",
	"mqtt_broker", "mqtt_topic",
	"redis_addr", "redis_password", "redis_prefix",
	"hook_dir", "bell",
}

// NotifyTargets are the accepted entries of the notify key.
var NotifyTargets = []string{"console", "hook", "mqtt", "redis"}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults).
type Config struct {
	Location      string `json:"location,omitempty"`
	Zone          string `json:"zone,omitempty"`
	Timetable     string `json:"timetable,omitempty"`    // path to a YAML timetable
	Times         string `json:"times,omitempty"`        // six comma-separated HH:MM values
	LeadMinutes   *int   `json:"lead_minutes,omitempty"` // pointer so we can distinguish "not set" from 0
	AutoTheme     *bool  `json:"auto_theme,omitempty"`
	Theme         string `json:"theme,omitempty"`       // "day" or "night", used when auto_theme is off
	TimeFormat    string `json:"time_format,omitempty"` // "12h" or "24h"
	Notify        string `json:"notify,omitempty"`      // comma-separated transports
	MQTTBroker    string `json:"mqtt_broker,omitempty"`
	MQTTTopic     string `json:"mqtt_topic,omitempty"`
	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	RedisPrefix   string `json:"redis_prefix,omitempty"`
	HookDir       string `json:"hook_dir,omitempty"`
	Bell          *bool  `json:"bell,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	lead := 15
	auto := true
	bell := false
	return Config{
		Location:    "Sarajevo",
		Zone:        prayer.DefaultZone,
		LeadMinutes: &lead,
		AutoTheme:   &auto,
		Theme:       string(prayer.ThemeDay),
		TimeFormat:  "24h",
		Notify:      "console",
		MQTTTopic:   "vaktija",
		RedisPrefix: "vaktija",
		Bell:        &bell,
	}
}

// WithDefaults returns a copy of c with every unset field taken from
// Defaults.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if c.Location == "" {
		c.Location = d.Location
	}
	if c.Zone == "" {
		c.Zone = d.Zone
	}
	if c.LeadMinutes == nil {
		c.LeadMinutes = d.LeadMinutes
	}
	if c.AutoTheme == nil {
		c.AutoTheme = d.AutoTheme
	}
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	if c.TimeFormat == "" {
		c.TimeFormat = d.TimeFormat
	}
	if c.Notify == "" {
		c.Notify = d.Notify
	}
	if c.MQTTTopic == "" {
		c.MQTTTopic = d.MQTTTopic
	}
	if c.RedisPrefix == "" {
		c.RedisPrefix = d.RedisPrefix
	}
	if c.Bell == nil {
		c.Bell = d.Bell
	}
	return c
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
// If the file exists but is invalid JSON, it returns an error.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadDotEnv loads KEY=value pairs from the given .env files into the
// process environment. Missing files are skipped and variables already set
// are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv sets every key that has a VAKTIJA_<KEY> variable, validating it
// like Set. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, key := range ValidKeys {
		v, ok := lookup(EnvPrefix + strings.ToUpper(key))
		if !ok || v == "" {
			continue
		}
		if err := c.Set(key, v); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
	}
	return nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}

	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "location":
		c.Location = value
	case "zone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid zone %q: %w", value, err)
		}
		c.Zone = value
	case "timetable":
		c.Timetable = value
	case "times":
		if _, err := prayer.ParseTable("", nil, SplitList(value)); err != nil {
			return fmt.Errorf("invalid times %q: %w", value, err)
		}
		c.Times = value
	case "lead_minutes":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid lead_minutes %q: must be an integer", value)
		}
		if v < 1 || v > 120 {
			return fmt.Errorf("invalid lead_minutes %q: must be between 1 and 120", value)
		}
		c.LeadMinutes = &v
	case "auto_theme":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid auto_theme %q: must be true or false", value)
		}
		c.AutoTheme = &v
	case "theme":
		t, ok := prayer.ParseTheme(value)
		if !ok {
			return fmt.Errorf("invalid theme %q: must be \"day\" or \"night\"", value)
		}
		c.Theme = string(t)
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "notify":
		for _, n := range SplitList(value) {
			if !isNotifyTarget(n) {
				return fmt.Errorf("invalid notify target %q; valid targets: %s", n, strings.Join(NotifyTargets, ", "))
			}
		}
		c.Notify = value
	case "mqtt_broker":
		c.MQTTBroker = value
	case "mqtt_topic":
		c.MQTTTopic = value
	case "redis_addr":
		c.RedisAddr = value
	case "redis_password":
		c.RedisPassword = value
	case "redis_prefix":
		c.RedisPrefix = value
	case "hook_dir":
		c.HookDir = value
	case "bell":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bell %q: must be true or false", value)
		}
		c.Bell = &v
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "location":
		return c.Location, nil
	case "zone":
		return c.Zone, nil
	case "timetable":
		return c.Timetable, nil
	case "times":
		return c.Times, nil
	case "lead_minutes":
		if c.LeadMinutes == nil {
			return "", nil
		}
		return strconv.Itoa(*c.LeadMinutes), nil
	case "auto_theme":
		return formatBool(c.AutoTheme), nil
	case "theme":
		return c.Theme, nil
	case "time_format":
		return c.TimeFormat, nil
	case "notify":
		return c.Notify, nil
	case "mqtt_broker":
		return c.MQTTBroker, nil
	case "mqtt_topic":
		return c.MQTTTopic, nil
	case "redis_addr":
		return c.RedisAddr, nil
	case "redis_password":
		return c.RedisPassword, nil
	case "redis_prefix":
		return c.RedisPrefix, nil
	case "hook_dir":
		return c.HookDir, nil
	case "bell":
		return formatBool(c.Bell), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// LeadOrDefault returns the notification lead time.
func (c *Config) LeadOrDefault(def time.Duration) time.Duration {
	if c.LeadMinutes != nil && *c.LeadMinutes > 0 {
		return time.Duration(*c.LeadMinutes) * time.Minute
	}
	return def
}

// NotifyTargetsList returns the configured transports, in order.
func (c *Config) NotifyTargetsList() []string {
	return SplitList(c.Notify)
}

// SplitList splits a comma-separated value, trimming blanks.
func SplitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isNotifyTarget(name string) bool {
	for _, t := range NotifyTargets {
		if t == name {
			return true
		}
	}
	return false
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
