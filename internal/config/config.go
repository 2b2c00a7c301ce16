// Package config loads the server configuration from a YAML file, applies
// environment overrides, validates it and fills defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Discord   DiscordConfig   `yaml:"discord"`
	Database  DatabaseConfig  `yaml:"database"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Widget    WidgetConfig    `yaml:"widget"`

	// Path is the file the config was read from, or "" when none existed.
	Path string `yaml:"-"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type DiscordConfig struct {
	Token   string        `yaml:"token"`
	APIBase string        `yaml:"api_base"`
	Timeout time.Duration `yaml:"timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RateLimitConfig struct {
	// Requests per IP per Window. An omitted section gets 30/min; requests: 0
	// with a window set turns limiting off.
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

type WidgetConfig struct {
	// LookupBaseURL is where the page's lookup client sends requests.
	// Defaults to Server.BaseURL.
	LookupBaseURL string `yaml:"lookup_base_url"`
	// Overrides maps a user id to a fixed account type label.
	Overrides map[string]string `yaml:"overrides"`
}

// Load reads the file at path. A missing file is not an error: defaults and
// environment overrides are used and Path is left empty.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		cfg.Path = path
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("applying env overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.Discord.Token = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT %q is not a number", v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("LOOKUP_BASE_URL"); v != "" {
		c.Widget.LookupBaseURL = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if err := absoluteURL("server.base_url", c.Server.BaseURL); err != nil {
		return err
	}
	if err := absoluteURL("discord.api_base", c.Discord.APIBase); err != nil {
		return err
	}
	if err := absoluteURL("widget.lookup_base_url", c.Widget.LookupBaseURL); err != nil {
		return err
	}
	if c.Discord.Timeout < 0 {
		return fmt.Errorf("discord.timeout must not be negative")
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rate_limit.requests must not be negative")
	}
	if c.RateLimit.Window < 0 {
		return fmt.Errorf("rate_limit.window must not be negative")
	}
	for id := range c.Widget.Overrides {
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return fmt.Errorf("widget.overrides: key %q is not a user id", id)
		}
	}
	return nil
}

// absoluteURL accepts "" (unset) or an absolute http(s) URL.
func absoluteURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, raw)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BaseURL == "" {
		host := c.Server.Host
		if host == "0.0.0.0" {
			host = "localhost"
		}
		c.Server.BaseURL = fmt.Sprintf("http://%s:%d", host, c.Server.Port)
	}
	if c.Discord.APIBase == "" {
		c.Discord.APIBase = "https://discord.com/api/v10"
	}
	if c.Discord.Timeout == 0 {
		c.Discord.Timeout = 10 * time.Second
	}
	if c.Database.Path == "" {
		c.Database.Path = "./data/lookups.db"
	}
	if c.RateLimit.Requests == 0 && c.RateLimit.Window == 0 {
		c.RateLimit.Requests = 30
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Widget.LookupBaseURL == "" {
		c.Widget.LookupBaseURL = c.Server.BaseURL
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
