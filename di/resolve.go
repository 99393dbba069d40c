package di

import "fmt"

// MustResolve resolves a service with type safety, panics on error.
//
// Example:
//
//	codec := di.MustResolve[charset.Codec](c, di.Contracts.UnicodeConverter)
func MustResolve[T any](c Container, key string) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Resolve resolves a service with type safety, returns error on failure.
//
// Example:
//
//	branch, err := di.Resolve[pref.Branch](c, di.Contracts.PreferenceBranch)
//	if err != nil {
//	    return fmt.Errorf("failed to get preference branch: %w", err)
//	}
func Resolve[T any](c Container, key string) (T, error) {
	var zero T
	if c == nil {
		return zero, fmt.Errorf("di: no container to resolve %s from", key)
	}
	instance, err := c.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: component %s is %T, expected %T", key, instance, zero)
	}
	return result, nil
}

// GetService resolves the service registered for a contract/interface pair.
func GetService[T any](c Container, contract, iface string) (T, error) {
	return Resolve[T](c, Key(contract, iface))
}

// TryResolve resolves a service, returns zero value and false if not found.
//
// Example:
//
//	if cfg, ok := di.TryResolve[*bootstrap.Config](c, di.Contracts.Config); ok {
//	    ...
//	}
func TryResolve[T any](c Container, key string) (T, bool) {
	result, err := Resolve[T](c, key)
	if err != nil {
		return result, false
	}
	return result, true
}
