// Package component defines lifecycle-managed host services.
//
// Backends that hold connections (preference stores, Redis) implement
// Component and are registered with a Registry, which starts them in
// registration order and stops them in reverse.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: one-line summary for startup logging
//
// BaseLazyComponent defers expensive setup until the first Start or use.
package component
