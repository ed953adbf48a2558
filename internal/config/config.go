package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// BaseURLEnv overrides endpoint.base_url when set.
const BaseURLEnv = "SEARCHFAV_BASE_URL"

const (
	FormatJSON = "json"
	FormatFeed = "feed"

	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type Endpoint struct {
	BaseURL string `yaml:"base_url"`
	Path    string `yaml:"path"`
	Format  string `yaml:"format"` // "json" or "feed"
	Timeout string `yaml:"timeout"`
}

type Storage struct {
	Backend     string `yaml:"backend"` // "sqlite" or "redis"
	Path        string `yaml:"path,omitempty"`
	RedisAddr   string `yaml:"redis_addr,omitempty"`
	RedisPrefix string `yaml:"redis_prefix,omitempty"`
}

type Log struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path,omitempty"`
}

type Config struct {
	Endpoint Endpoint `yaml:"endpoint"`
	Debounce string   `yaml:"debounce"`
	Storage  Storage  `yaml:"storage"`
	Log      Log      `yaml:"log"`
}

// ItemsURL joins the base URL and the items path.
func (c *Config) ItemsURL() string {
	base := strings.TrimRight(c.Endpoint.BaseURL, "/")
	p := c.Endpoint.Path
	if p == "" {
		return base
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return base + p
}

func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Endpoint.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// StoragePath returns the sqlite database path, defaulting to the XDG data dir.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	return filepath.Join(xdg.DataHome, "searchfav", "searchfav.db")
}

func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	return filepath.Join(xdg.StateHome, "searchfav", "searchfav.log")
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "searchfav", "config.yaml")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location), layering it over
// the embedded defaults. The base URL env var wins over both.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Non-fatal: embedded defaults are enough to run
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if v := os.Getenv(BaseURLEnv); v != "" {
		cfg.Endpoint.BaseURL = v
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

// SetBaseURL replaces the endpoint base URL after checking it.
func (c *Config) SetBaseURL(raw string) error {
	if err := checkBaseURL(raw); err != nil {
		return err
	}
	c.Endpoint.BaseURL = raw
	return nil
}

func checkBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("endpoint: base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("endpoint: invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint: base_url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}

func validate(cfg *Config) error {
	if err := checkBaseURL(cfg.Endpoint.BaseURL); err != nil {
		return err
	}

	switch cfg.Endpoint.Format {
	case FormatJSON, FormatFeed:
	case "":
		cfg.Endpoint.Format = FormatJSON
	default:
		return fmt.Errorf("endpoint: unknown format %q (valid: json, feed)", cfg.Endpoint.Format)
	}

	switch cfg.Storage.Backend {
	case BackendSQLite:
	case "":
		cfg.Storage.Backend = BackendSQLite
	case BackendRedis:
		if cfg.Storage.RedisAddr == "" {
			return fmt.Errorf("storage: redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage: unknown backend %q (valid: sqlite, redis)", cfg.Storage.Backend)
	}
	return nil
}
