package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/hostkit/component"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/logger"
	"github.com/kbukum/hostkit/version"
)

// ServiceInfo describes one locator registration.
type ServiceInfo struct {
	Contract  string
	Interface string
	Mode      string
}

// Summary is a snapshot of a started runtime.
type Summary struct {
	Name            string
	Version         string
	Build           version.Info
	StartupDuration time.Duration
	DefaultCharset  string
	Backend         string
	Components      []component.Health
	Services        []ServiceInfo
}

// Healthy reports whether every component is healthy.
func (s Summary) Healthy() bool {
	for _, h := range s.Components {
		if !h.Healthy() {
			return false
		}
	}
	return true
}

// Summary collects the current runtime state.
func (r *Runtime) Summary(ctx context.Context) Summary {
	s := Summary{
		Name:            r.Name,
		Version:         r.Version,
		Build:           version.Get(),
		StartupDuration: r.startupTime,
		DefaultCharset:  r.Cfg.Charset.Default,
		Backend:         r.Cfg.Preferences.Backend,
		Components:      r.Health(ctx),
	}
	for _, reg := range r.Container.Registrations() {
		contract, iface := di.SplitKey(reg.Key)
		s.Services = append(s.Services, ServiceInfo{
			Contract:  contract,
			Interface: iface,
			Mode:      reg.Mode.String(),
		})
	}
	return s
}

// Log writes the summary as structured entries: one for the runtime, one
// per component and one per service.
func (s Summary) Log(log *logger.Logger) {
	log.Info("Runtime started", map[string]interface{}{
		"name":               s.Name,
		"version":            s.Version,
		"go_version":         s.Build.GoVersion,
		logger.FieldDuration: s.StartupDuration.Milliseconds(),
		logger.FieldCharset:  s.DefaultCharset,
		logger.FieldBackend:  s.Backend,
		"healthy":            s.Healthy(),
	})

	for _, h := range s.Components {
		fields := logger.Fields(logger.FieldComponent, h.Name, logger.FieldStatus, string(h.Status))
		if h.Message != "" {
			fields["message"] = h.Message
		}
		if h.Healthy() {
			log.Debug("Component health", fields)
		} else {
			log.Warn("Component health", fields)
		}
	}

	for _, svc := range s.Services {
		log.Debug("Service registered", map[string]interface{}{
			"contract":  svc.Contract,
			"interface": svc.Interface,
			"mode":      svc.Mode,
		})
	}
}
