package redis

import (
	"time"

	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/security"
)

// DefaultKeyPrefix namespaces preference hashes.
const DefaultKeyPrefix = "prefs"

// Config holds Redis connection configuration.
type Config struct {
	// Enabled controls whether the Redis component is active.
	Enabled bool `mapstructure:"enabled"`

	// Addr is the Redis server address (host:port).
	Addr string `mapstructure:"addr"`

	// Password is the Redis server password.
	Password string `mapstructure:"password"`

	// DB is the Redis database number.
	DB int `mapstructure:"db"`

	// KeyPrefix is prepended to every preference key, separated by a colon.
	KeyPrefix string `mapstructure:"key_prefix"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `mapstructure:"pool_size"`

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int `mapstructure:"min_idle_conns"`

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int `mapstructure:"max_retries"`

	// ConnectAttempts is how many times Start pings the server before failing.
	ConnectAttempts int `mapstructure:"connect_attempts"`

	// DialTimeout is the timeout for establishing new connections (e.g. "5s").
	DialTimeout string `mapstructure:"dial_timeout"`

	// ReadTimeout is the timeout for socket reads (e.g. "3s").
	ReadTimeout string `mapstructure:"read_timeout"`

	// WriteTimeout is the timeout for socket writes (e.g. "3s").
	WriteTimeout string `mapstructure:"write_timeout"`

	// TLS enables an encrypted connection when any field is set.
	TLS *security.TLSConfig `mapstructure:"tls"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MinIdleConns <= 0 {
		c.MinIdleConns = 2
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.ConnectAttempts <= 0 {
		c.ConnectAttempts = 3
	}
	if c.DialTimeout == "" {
		c.DialTimeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "3s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "3s"
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		return errors.InvalidInput("redis.addr", "redis addr is required")
	}
	if c.PoolSize <= 0 {
		return errors.InvalidInput("redis.pool_size", "pool_size must be > 0")
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	for field, value := range map[string]string{
		"redis.dial_timeout":  c.DialTimeout,
		"redis.read_timeout":  c.ReadTimeout,
		"redis.write_timeout": c.WriteTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return errors.InvalidInput(field, err.Error())
		}
	}
	return nil
}
