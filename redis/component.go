package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/hostkit/component"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/resilience"
)

// Component wraps Client and implements component.Component for lifecycle management.
type Component struct {
	client *Client
	cfg    Config
	log    *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a Redis component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("redis"),
	}
}

// Client returns the underlying *Client, or nil if not started.
func (c *Component) Client() *Client {
	return c.client
}

// Name returns the component name.
func (c *Component) Name() string { return "redis" }

// Start initializes the Redis client and verifies connectivity.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return err
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = c.cfg.ConnectAttempts
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		c.log.Warn("Redis ping failed, retrying", logger.MergeWithError(map[string]interface{}{
			"attempt": attempt,
			"backoff": backoff.String(),
		}, err))
	}
	if err := resilience.RetryFunc(ctx, retry, func() error { return client.Ping(ctx) }); err != nil {
		_ = client.Close()
		return err
	}

	c.client = client
	return nil
}

// Stop gracefully closes the Redis connection.
func (c *Component) Stop(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Health returns the current health status of the Redis connection.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "redis not initialized",
		}
	}

	if err := c.client.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}

	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
	}
}

// Describe returns a one-line summary for startup logging.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Redis",
		Type:    "redis",
		Details: fmt.Sprintf("%s db=%d pool=%d", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize),
	}
}
