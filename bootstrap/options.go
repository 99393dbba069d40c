package bootstrap

import (
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/logger"
)

// Option configures the Runtime during creation.
type Option func(*runtimeOptions)

// runtimeOptions collects all option values before applying to Runtime.
type runtimeOptions struct {
	logger          *logger.Logger
	container       di.Container
	gracefulTimeout *time.Duration
	meterProvider   metric.MeterProvider
}

// resolveOptions applies all options and returns the collected values.
func resolveOptions(opts []Option) *runtimeOptions {
	o := &runtimeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the runtime.
// If not set, the logger is initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *runtimeOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for Stop.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *runtimeOptions) {
		o.gracefulTimeout = &d
	}
}

// WithContainer sets the locator the runtime registers services in.
func WithContainer(c di.Container) Option {
	return func(o *runtimeOptions) {
		o.container = c
	}
}

// WithMeterProvider sets where the bridge metrics are recorded. If not set,
// the global OpenTelemetry provider is used.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *runtimeOptions) {
		o.meterProvider = mp
	}
}
