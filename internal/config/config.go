package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ksyq12/makesite/internal/errors"
	"gopkg.in/yaml.v3"
)

// Default filesystem roots
const (
	DefaultAvailable = "/etc/nginx/sites-available"
	DefaultEnabled   = "/etc/nginx/sites-enabled"
	DefaultWWW       = "/var/www"
	DefaultLogs      = "/var/log/nginx"
	DefaultCerts     = "/etc/letsencrypt/live"
	DefaultCertbot   = "/usr/bin/certbot"
)

// DefaultPath is read when neither --config nor MAKESITE_CONFIG is set
const DefaultPath = "/etc/makesite/config.yaml"

// EnvPath names the environment variable that overrides DefaultPath
const EnvPath = "MAKESITE_CONFIG"

// Config represents the application configuration
type Config struct {
	Paths   Paths  `yaml:"paths"`
	Certbot string `yaml:"certbot"`

	// Source is the file the config was read from, empty for built-in defaults
	Source string `yaml:"-"`
}

// Paths holds the filesystem roots every site path is derived from
type Paths struct {
	Available string `yaml:"available"`
	Enabled   string `yaml:"enabled"`
	WWW       string `yaml:"www"`
	Logs      string `yaml:"logs"`
	Certs     string `yaml:"certs"`
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Paths: Paths{
			Available: DefaultAvailable,
			Enabled:   DefaultEnabled,
			WWW:       DefaultWWW,
			Logs:      DefaultLogs,
			Certs:     DefaultCerts,
		},
		Certbot: DefaultCertbot,
	}
}

// ResolvePath picks the config file location. explicit reports whether the
// path came from the caller or the environment rather than DefaultPath.
func ResolvePath(path string) (resolved string, explicit bool) {
	if path != "" {
		return path, true
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// Load reads the config file at path (see ResolvePath). Keys missing from
// the file keep their defaults. A missing default file yields the defaults;
// a missing explicitly named file is an error.
func Load(path string) (*Config, error) {
	resolved, explicit := ResolvePath(path)

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return New(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to read config", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Source = resolved
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to parse config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every root and the certbot binary are absolute paths
func (c *Config) Validate() error {
	fields := []struct {
		key, value string
	}{
		{"paths.available", c.Paths.Available},
		{"paths.enabled", c.Paths.Enabled},
		{"paths.www", c.Paths.WWW},
		{"paths.logs", c.Paths.Logs},
		{"paths.certs", c.Paths.Certs},
		{"certbot", c.Certbot},
	}
	for _, f := range fields {
		if f.value == "" {
			return errors.Wrap(errors.ErrCodeConfig, "invalid config", fmt.Errorf("%s cannot be empty", f.key))
		}
		if !filepath.IsAbs(f.value) {
			return errors.Wrap(errors.ErrCodeConfig, "invalid config", fmt.Errorf("%s must be an absolute path: %s", f.key, f.value))
		}
	}
	return nil
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
