package di

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/hostkit/logger"
)

// RegistrationMode determines how a service is resolved.
type RegistrationMode int

const (
	Factory   RegistrationMode = iota // New instance on every resolve
	Lazy                              // Constructed on first resolve, then cached
	Singleton                         // Pre-created instance
)

// String returns the mode name.
func (m RegistrationMode) String() string {
	switch m {
	case Factory:
		return "factory"
	case Lazy:
		return "lazy"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Container defines the service locator used by the bridges.
type Container interface {
	Register(key string, constructor interface{}) error
	RegisterFactory(key string, constructor interface{}) error
	RegisterSingleton(key string, instance interface{}) error
	Resolve(key string) (interface{}, error)
	Unregister(key string) bool
	Close() error

	// Introspection
	Registrations() []RegistrationInfo
}

// RegistrationInfo describes a registered service for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        RegistrationMode
	Initialized bool
}

// UnifiedContainer is the default Container implementation.
type UnifiedContainer struct {
	components map[string]*registration
	singletons map[string]interface{}
	mutex      sync.RWMutex
}

type registration struct {
	key         string
	constructor interface{}
	mode        RegistrationMode
	instance    interface{}
	mutex       sync.Mutex
	initialized bool
}

// NewContainer returns an empty container.
func NewContainer() Container {
	return &UnifiedContainer{
		components: make(map[string]*registration),
		singletons: make(map[string]interface{}),
	}
}

// Register registers a lazily constructed, cached service.
func (c *UnifiedContainer) Register(key string, constructor interface{}) error {
	return c.register(key, constructor, Lazy)
}

// RegisterFactory registers a service constructed afresh on every resolve.
func (c *UnifiedContainer) RegisterFactory(key string, constructor interface{}) error {
	return c.register(key, constructor, Factory)
}

func (c *UnifiedContainer) register(key string, constructor interface{}, mode RegistrationMode) error {
	if key == "" {
		return fmt.Errorf("registration key is required")
	}
	if reflect.ValueOf(constructor).Kind() != reflect.Func {
		return fmt.Errorf("constructor for %s must be a function", key)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.singletons, key)
	c.components[key] = &registration{
		key:         key,
		constructor: constructor,
		mode:        mode,
	}
	return nil
}

// RegisterSingleton registers a pre-created instance.
func (c *UnifiedContainer) RegisterSingleton(key string, instance interface{}) error {
	if key == "" {
		return fmt.Errorf("registration key is required")
	}
	if instance == nil {
		return fmt.Errorf("singleton %s must not be nil", key)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.components, key)
	c.singletons[key] = instance
	return nil
}

// Resolve returns the service registered under key.
func (c *UnifiedContainer) Resolve(key string) (interface{}, error) {
	c.mutex.RLock()
	if singleton, exists := c.singletons[key]; exists {
		c.mutex.RUnlock()
		return singleton, nil
	}
	reg, exists := c.components[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("component not registered: %s", key)
	}

	switch reg.mode {
	case Factory:
		return c.callConstructor(reg.constructor)
	case Lazy:
		return c.resolveLazy(reg)
	default:
		return nil, fmt.Errorf("unknown registration mode for component: %s", key)
	}
}

func (c *UnifiedContainer) resolveLazy(reg *registration) (interface{}, error) {
	reg.mutex.Lock()
	defer reg.mutex.Unlock()

	if reg.initialized {
		return reg.instance, nil
	}

	instance, err := c.callConstructor(reg.constructor)
	if err != nil {
		logger.Debug("Lazy component initialization failed", map[string]interface{}{
			"component": reg.key,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("failed to initialize component '%s': %w", reg.key, err)
	}

	reg.instance = instance
	reg.initialized = true
	return instance, nil
}

// callConstructor invokes func(), func(context.Context) or func(Container),
// each returning either (instance) or (instance, error).
func (c *UnifiedContainer) callConstructor(constructor interface{}) (interface{}, error) {
	fn := reflect.ValueOf(constructor)
	fnType := fn.Type()

	var args []reflect.Value
	switch fnType.NumIn() {
	case 0:
	case 1:
		if fnType.In(0) == reflect.TypeOf((*context.Context)(nil)).Elem() {
			args = []reflect.Value{reflect.ValueOf(context.Background())}
		} else {
			args = []reflect.Value{reflect.ValueOf(Container(c))}
		}
	default:
		return nil, fmt.Errorf("constructor must take at most one argument")
	}

	return handleConstructorResults(fn.Call(args))
}

func handleConstructorResults(results []reflect.Value) (interface{}, error) {
	switch len(results) {
	case 1:
		return results[0].Interface(), nil
	case 2:
		if errVal := results[1].Interface(); errVal != nil {
			err, ok := errVal.(error)
			if !ok {
				return nil, fmt.Errorf("constructor second result must be an error")
			}
			return nil, err
		}
		return results[0].Interface(), nil
	default:
		return nil, fmt.Errorf("constructor must return either (instance) or (instance, error)")
	}
}

// Unregister removes a registration and reports whether one existed.
func (c *UnifiedContainer) Unregister(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, inComponents := c.components[key]
	_, inSingletons := c.singletons[key]
	delete(c.components, key)
	delete(c.singletons, key)
	return inComponents || inSingletons
}

// Registrations returns info about all registered services, sorted by key.
func (c *UnifiedContainer) Registrations() []RegistrationInfo {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	result := make([]RegistrationInfo, 0, len(c.components)+len(c.singletons))
	for key, reg := range c.components {
		reg.mutex.Lock()
		result = append(result, RegistrationInfo{
			Key:         key,
			Mode:        reg.mode,
			Initialized: reg.initialized,
		})
		reg.mutex.Unlock()
	}
	for key := range c.singletons {
		result = append(result, RegistrationInfo{
			Key:         key,
			Mode:        Singleton,
			Initialized: true,
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Close closes every cached instance and singleton that implements
// interface{ Close() error }. The first error is returned.
func (c *UnifiedContainer) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var firstErr error
	closeOne := func(instance interface{}) {
		if closer, ok := instance.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	for _, reg := range c.components {
		if reg.initialized {
			closeOne(reg.instance)
		}
	}
	for _, singleton := range c.singletons {
		closeOne(singleton)
	}
	return firstErr
}
