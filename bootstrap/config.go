package bootstrap

import (
	"fmt"
	"time"

	"github.com/kbukum/hostkit/charset"
	"github.com/kbukum/hostkit/config"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/redis"
	"github.com/kbukum/hostkit/validation"
)

// Preference backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the runtime configuration.
//
//	name: hostkit
//	charset:
//	  default: UTF-8
//	preferences:
//	  backend: sqlite
//	  sqlite: {path: prefs.db}
//	  defaults:
//	    browser.theme: light
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Charset     CharsetConfig     `yaml:"charset" mapstructure:"charset"`
	Preferences PreferencesConfig `yaml:"preferences" mapstructure:"preferences"`
}

// CharsetConfig configures the charset bridge.
type CharsetConfig struct {
	// Default is used when a caller passes an empty charset name.
	Default string `yaml:"default" mapstructure:"default" validate:"omitempty,charset"`
}

// PreferencesConfig selects and configures the preference backend.
type PreferencesConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend" validate:"omitempty,oneof=memory file sqlite redis"`

	// Timeout bounds each backend call (e.g. "2s"). Empty means no bound.
	Timeout string `yaml:"timeout" mapstructure:"timeout"`

	File   PathConfig   `yaml:"file" mapstructure:"file"`
	SQLite PathConfig   `yaml:"sqlite" mapstructure:"sqlite"`
	Redis  redis.Config `yaml:"redis" mapstructure:"redis"`

	// Defaults are defined at startup for keys the backend does not hold yet.
	// Nested maps are flattened to dotted names.
	Defaults map[string]any `yaml:"defaults" mapstructure:"defaults"`
}

// PathConfig locates a file-based backend.
type PathConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()

	if c.Charset.Default == "" {
		c.Charset.Default = charset.DefaultCharset
	}

	p := &c.Preferences
	if p.Backend == "" {
		p.Backend = BackendMemory
	}
	if p.File.Path == "" {
		p.File.Path = "prefs.yaml"
	}
	if p.SQLite.Path == "" {
		p.SQLite.Path = "prefs.db"
	}
	if p.Backend == BackendRedis {
		p.Redis.Enabled = true
	}
	p.Redis.ApplyDefaults()
}

// Validate checks the configuration. Call ApplyDefaults first.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	v := validation.New()
	if c.Preferences.Timeout != "" {
		_, err := time.ParseDuration(c.Preferences.Timeout)
		v.Custom(err == nil, "preferences.timeout", fmt.Sprintf("invalid duration %q", c.Preferences.Timeout))
	}
	switch c.Preferences.Backend {
	case BackendFile:
		v.Required("preferences.file.path", c.Preferences.File.Path)
	case BackendSQLite:
		v.Required("preferences.sqlite.path", c.Preferences.SQLite.Path)
	case BackendRedis:
		if err := c.Preferences.Redis.Validate(); err != nil {
			v.AddError("preferences.redis", err.Error())
		}
	}
	for name := range flattenDefaults(c.Preferences.Defaults) {
		v.PrefName("preferences.defaults", name)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// timeout returns the parsed backend call timeout.
func (p PreferencesConfig) timeout() time.Duration {
	d, _ := time.ParseDuration(p.Timeout)
	return d
}

// Load reads the configuration for serviceName with the config package and
// applies defaults. Validation happens in New.
func Load(serviceName string, opts ...config.LoaderOption) (*Config, error) {
	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// flattenDefaults turns {"browser": {"theme": "light"}} into
// {"browser.theme": "light"}.
func flattenDefaults(defaults map[string]any) map[string]any {
	out := make(map[string]any, len(defaults))
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			name := k
			if prefix != "" {
				name = prefix + "." + k
			}
			if nested, ok := v.(map[string]any); ok {
				walk(name, nested)
				continue
			}
			out[name] = v
		}
	}
	walk("", defaults)
	return out
}

// errBackendUnavailable reports a backend dependency that is not running.
func errBackendUnavailable(backend string) error {
	return errors.ServiceUnavailable(backend).WithDetail("backend", backend)
}
