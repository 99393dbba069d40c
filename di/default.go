package di

import "sync/atomic"

var defaultContainer atomic.Pointer[containerHolder]

type containerHolder struct{ c Container }

// SetDefault installs c as the process-wide locator used by the package-level
// bridge functions. Passing nil clears it.
func SetDefault(c Container) {
	if c == nil {
		defaultContainer.Store(nil)
		return
	}
	defaultContainer.Store(&containerHolder{c: c})
}

// Default returns the process-wide locator, or nil if none is installed.
func Default() Container {
	if h := defaultContainer.Load(); h != nil {
		return h.c
	}
	return nil
}
