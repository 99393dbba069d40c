package logger

import "sync"

// Named loggers let packages that run outside a Runtime (the package-level
// bridge functions, lazy components) log through the host's logger.
var (
	namedMu sync.RWMutex
	named   = make(map[string]*Logger)
)

// Register stores l under name, replacing any previous entry. A nil l
// removes the entry.
func Register(name string, l *Logger) {
	namedMu.Lock()
	defer namedMu.Unlock()
	if l == nil {
		delete(named, name)
		return
	}
	named[name] = l
}

// Get returns the logger registered under name, or the global logger tagged
// with name as its component.
func Get(name string) *Logger {
	namedMu.RLock()
	l, ok := named[name]
	namedMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// Unregister removes name if it still maps to l, so an owner cannot drop a
// logger registered after its own.
func Unregister(name string, l *Logger) bool {
	namedMu.Lock()
	defer namedMu.Unlock()
	if cur, ok := named[name]; !ok || cur != l {
		return false
	}
	delete(named, name)
	return true
}

// RegisterComponents registers base.WithComponent(name) for every name and
// returns what it registered, keyed by name.
func RegisterComponents(base *Logger, names ...string) map[string]*Logger {
	out := make(map[string]*Logger, len(names))
	for _, name := range names {
		l := base.WithComponent(name)
		Register(name, l)
		out[name] = l
	}
	return out
}

// Registered returns the names with an explicit logger.
func Registered() []string {
	namedMu.RLock()
	defer namedMu.RUnlock()
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	return names
}
