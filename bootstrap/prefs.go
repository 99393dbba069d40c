package bootstrap

import (
	"context"
	"sync"

	"github.com/kbukum/hostkit/component"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/pref"
	"github.com/kbukum/hostkit/pref/sqlite"
	"github.com/kbukum/hostkit/redis"
)

// prefsComponent opens the configured preference backend on Start and
// closes it on Stop.
type prefsComponent struct {
	*component.Lazy

	cfg   PreferencesConfig
	redis *redis.Component
	log   *logger.Logger

	mu     sync.RWMutex
	branch *pref.StoreBranch
}

func newPrefsComponent(cfg PreferencesConfig, rc *redis.Component, log *logger.Logger) *prefsComponent {
	p := &prefsComponent{cfg: cfg, redis: rc, log: log.WithComponent("preferences")}
	p.Lazy = component.NewLazy("preferences", p.open).
		WithCloser(p.close).
		WithHealthCheck(p.ping).
		WithDescription(p.describe)
	return p
}

// Branch returns the open branch, or nil before Start.
func (p *prefsComponent) Branch() *pref.StoreBranch {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.branch
}

func (p *prefsComponent) open(ctx context.Context) error {
	branch, err := p.openBranch()
	if err != nil {
		return err
	}

	defaults := flattenDefaults(p.cfg.Defaults)
	if err := pref.DefineDefaults(branch, defaults); err != nil {
		_ = branch.Close()
		return err
	}

	p.mu.Lock()
	p.branch = branch
	p.mu.Unlock()

	for name, raw := range defaults {
		p.log.Debug("Preference default", logger.PrefFields(name, pref.ValueOf(raw).Kind().String()))
	}

	p.log.Debug("Preference backend opened", map[string]interface{}{
		logger.FieldBackend: p.cfg.Backend,
		"defaults":          len(defaults),
	})
	return nil
}

func (p *prefsComponent) openBranch() (*pref.StoreBranch, error) {
	var opts []pref.BranchOption
	if d := p.cfg.timeout(); d > 0 {
		opts = append(opts, pref.WithTimeout(d))
	}

	switch p.cfg.Backend {
	case BackendMemory:
		return pref.NewStoreBranch(pref.NewMemoryStore(), opts...), nil
	case BackendFile:
		return pref.NewFileBranch(p.cfg.File.Path, opts...)
	case BackendSQLite:
		return sqlite.NewBranch(p.cfg.SQLite.Path, opts...)
	case BackendRedis:
		if p.redis == nil || p.redis.Client() == nil {
			return nil, errBackendUnavailable(BackendRedis)
		}
		return redis.NewPrefBranch(p.redis.Client(), p.cfg.Redis.KeyPrefix, opts...), nil
	default:
		return nil, errors.InvalidInput("preferences.backend", "unknown backend "+p.cfg.Backend)
	}
}

func (p *prefsComponent) close() error {
	p.mu.Lock()
	branch := p.branch
	p.branch = nil
	p.mu.Unlock()

	if branch == nil {
		return nil
	}
	return branch.Close()
}

// ping checks backends that can be pinged. Redis health is reported by the
// redis component itself.
func (p *prefsComponent) ping(ctx context.Context) error {
	branch := p.Branch()
	if branch == nil {
		return errBackendUnavailable(p.cfg.Backend)
	}
	if pinger, ok := branch.Store().(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (p *prefsComponent) describe() component.Description {
	details := p.cfg.Backend
	switch p.cfg.Backend {
	case BackendFile:
		details += " " + p.cfg.File.Path
	case BackendSQLite:
		details += " " + p.cfg.SQLite.Path
	case BackendRedis:
		details += " " + p.cfg.Redis.Addr + " prefix=" + p.cfg.Redis.KeyPrefix
	}
	return component.Description{Name: "Preferences", Type: "preferences", Details: details}
}
