package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kbukum/hostkit/charset"
	"github.com/kbukum/hostkit/component"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/observability"
	"github.com/kbukum/hostkit/pref"
	"github.com/kbukum/hostkit/redis"
	"github.com/kbukum/hostkit/version"
)

// Runtime owns the service locator and the backends behind the bridges.
type Runtime struct {
	Name       string
	Version    string
	Cfg        *Config
	Container  di.Container
	Components *component.Registry
	Logger     *logger.Logger
	Metrics    *observability.Metrics

	charset *charset.Bridge
	prefs   *pref.Bridge
	branch  *prefsComponent
	loggers map[string]*logger.Logger

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook

	mu          sync.Mutex
	started     bool
	startupTime time.Duration
}

// New builds a runtime from cfg. It applies defaults, validates the config,
// initializes the logger and registers the host services. Backends are not
// opened until Start.
func New(cfg *Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.InvalidInput("config", "config is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Version == "" {
		cfg.Version = version.Short()
	}

	o := resolveOptions(opts)
	rt := &Runtime{
		Name:            cfg.Name,
		Version:         cfg.Version,
		Cfg:             cfg,
		Container:       di.NewContainer(),
		gracefulTimeout: 15 * time.Second,
	}
	if o.container != nil {
		rt.Container = o.container
	}
	if o.gracefulTimeout != nil {
		rt.gracefulTimeout = *o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		rt.Logger = o.logger
	} else {
		logger.Init(&cfg.Logging)
		rt.Logger = logger.GetGlobalLogger()
	}
	metrics, err := observability.NewMetrics(observability.MeterFrom(o.meterProvider))
	if err != nil {
		return nil, errors.Internal(err)
	}
	rt.Metrics = metrics

	rt.loggers = logger.RegisterComponents(rt.Logger, "charset", "preferences", "component")
	rt.Components = component.NewRegistry(rt.loggers["component"])

	if err := rt.registerServices(); err != nil {
		rt.unregisterLoggers()
		return nil, err
	}

	rt.charset = charset.NewBridge(
		charset.WithLocator(rt.Container),
		charset.WithLogger(rt.loggers["charset"]),
		charset.WithMetrics(rt.Metrics),
		charset.WithDefaultCharset(cfg.Charset.Default),
	)
	rt.prefs = pref.NewBridge(
		pref.WithLocator(rt.Container),
		pref.WithMetrics(rt.Metrics),
	)
	return rt, nil
}

// registerServices fills the locator and the component registry.
func (r *Runtime) registerServices() error {
	if err := charset.Register(r.Container); err != nil {
		return errors.Internal(err)
	}
	if err := r.Container.RegisterSingleton(di.Contracts.Config, r.Cfg); err != nil {
		return errors.Internal(err)
	}
	if err := r.Container.RegisterSingleton(di.Contracts.Logger, r.Logger); err != nil {
		return errors.Internal(err)
	}

	var rc *redis.Component
	if r.Cfg.Preferences.Backend == BackendRedis {
		rc = redis.NewComponent(r.Cfg.Preferences.Redis, r.Logger)
		if err := r.Components.Register(rc); err != nil {
			return err
		}
	}
	r.branch = newPrefsComponent(r.Cfg.Preferences, rc, r.Logger)
	return r.Components.Register(r.branch)
}

// Charset returns a charset bridge bound to this runtime's locator.
func (r *Runtime) Charset() *charset.Bridge { return r.charset }

// Prefs returns a preference bridge bound to this runtime's locator.
func (r *Runtime) Prefs() *pref.Bridge { return r.prefs }

// Install makes this runtime's locator the process-wide default used by the
// package-level charset and pref functions.
func (r *Runtime) Install() {
	di.SetDefault(r.Container)
}

// Start opens every backend in registration order, publishes the preference
// branch and runs the OnStart hooks. Starting a started runtime is a no-op.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return nil
	}
	start := time.Now()

	if err := r.Components.StartAll(ctx); err != nil {
		return err
	}
	if err := r.Container.RegisterSingleton(di.Contracts.PreferenceBranch, pref.Branch(r.branch.Branch())); err != nil {
		return errors.Internal(err)
	}
	if err := runHooks(ctx, r.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	r.started = true
	r.startupTime = time.Since(start)

	if err := r.ReadyCheck(ctx); err != nil {
		r.Logger.Warn("Ready check reported issues", logger.MergeWithError(nil, err))
	}
	r.Summary(ctx).Log(r.Logger)
	return nil
}

// Stop runs the OnStop hooks, withdraws the preference branch and stops the
// backends in reverse order, all within the graceful timeout.
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if r.started {
		if err := runHooks(ctx, r.onStop); err != nil {
			r.Logger.Error("OnStop hook error", logger.MergeWithError(nil, err))
			shutdownErr = err
		}
	}

	// The branch is owned by its component, not the container.
	r.Container.Unregister(di.Contracts.PreferenceBranch)

	if err := r.Components.StopAll(ctx); err != nil {
		r.Logger.Error("Shutdown completed with errors", logger.MergeWithError(nil, err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}
	if err := r.Container.Close(); err != nil {
		r.Logger.Error("Container close error", logger.MergeWithError(nil, err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	if di.Default() == r.Container {
		di.SetDefault(nil)
	}
	r.unregisterLoggers()
	r.started = false
	return shutdownErr
}

// unregisterLoggers drops the component loggers New registered, unless
// another runtime has replaced them since.
func (r *Runtime) unregisterLoggers() {
	for name, l := range r.loggers {
		logger.Unregister(name, l)
	}
}

// Health returns the health of every backend component.
func (r *Runtime) Health(ctx context.Context) []component.Health {
	return r.Components.HealthAll(ctx)
}

// ReadyCheck verifies that all registered components are healthy.
func (r *Runtime) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range r.Health(ctx) {
		if h.Healthy() {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return errors.ServiceUnavailable("runtime").WithDetail("unhealthy", unhealthy)
	}
	return nil
}

// Run starts the runtime, runs task and stops the runtime. SIGINT and
// SIGTERM cancel the task's context.
func (r *Runtime) Run(ctx context.Context, task func(ctx context.Context, rt *Runtime) error) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			r.Logger.Info("Received signal, canceling task", map[string]interface{}{
				"signal": sig.String(),
			})
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx, r)

	if stopErr := r.Stop(context.Background()); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}
