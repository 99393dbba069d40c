package pref

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/hostkit/errors"
)

// Branch is the host preference service contract.
type Branch interface {
	// PrefType returns the stored kind of name, KindUnset if it does not exist.
	PrefType(name string) (Kind, error)

	GetCharPref(name string) (string, error)
	SetCharPref(name string, value string) error
	GetIntPref(name string) (int, error)
	SetIntPref(name string, value int) error
	GetBoolPref(name string) (bool, error)
	SetBoolPref(name string, value bool) error
}

// Definer is implemented by branches that can create and remove keys.
type Definer interface {
	// Define creates name with the kind and payload of v, replacing any
	// existing value.
	Define(name string, v Value) error
	// Clear removes name. Clearing an absent key is not an error.
	Clear(name string) error
}

// Updater is implemented by branches that can read and replace a key under
// one lock. fn receives the current value, unset if absent; an error from fn
// aborts the write.
type Updater interface {
	Update(name string, fn func(cur Value) (Value, error)) error
}

// Store is the persistence a StoreBranch needs. Load returns the zero Value
// for absent keys.
type Store interface {
	Load(ctx context.Context, name string) (Value, error)
	Save(ctx context.Context, name string, v Value) error
	Delete(ctx context.Context, name string) error
}

// StoreBranch implements Branch and Definer over a Store.
type StoreBranch struct {
	store   Store
	timeout time.Duration
	mu      sync.Mutex
}

var (
	_ Branch  = (*StoreBranch)(nil)
	_ Definer = (*StoreBranch)(nil)
	_ Updater = (*StoreBranch)(nil)
)

// BranchOption configures a StoreBranch.
type BranchOption func(*StoreBranch)

// WithTimeout bounds every store call.
func WithTimeout(d time.Duration) BranchOption {
	return func(b *StoreBranch) { b.timeout = d }
}

// NewStoreBranch wraps store as a Branch.
func NewStoreBranch(store Store, opts ...BranchOption) *StoreBranch {
	b := &StoreBranch{store: store}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Store returns the wrapped store.
func (b *StoreBranch) Store() Store { return b.store }

func (b *StoreBranch) callContext() (context.Context, context.CancelFunc) {
	if b.timeout > 0 {
		return context.WithTimeout(context.Background(), b.timeout)
	}
	return context.WithCancel(context.Background())
}

func (b *StoreBranch) load(name string) (Value, error) {
	if name == "" {
		return Value{}, errors.InvalidInput("name", "preference name is required")
	}
	ctx, cancel := b.callContext()
	defer cancel()
	return b.store.Load(ctx, name)
}

func (b *StoreBranch) save(name string, v Value) error {
	ctx, cancel := b.callContext()
	defer cancel()
	return b.store.Save(ctx, name, v)
}

// PrefType implements Branch.
func (b *StoreBranch) PrefType(name string) (Kind, error) {
	v, err := b.load(name)
	if err != nil {
		return KindUnset, err
	}
	return v.Kind(), nil
}

// get loads name and checks it holds kind.
func (b *StoreBranch) get(name string, kind Kind) (Value, error) {
	v, err := b.load(name)
	if err != nil {
		return Value{}, err
	}
	switch v.Kind() {
	case KindUnset:
		return Value{}, errors.NotFound("preference", name)
	case kind:
		return v, nil
	default:
		return Value{}, errors.KindMismatch(name, v.Kind().String(), kind.String())
	}
}

// set stores v under name, creating the key if needed. An existing key of a
// different kind is left untouched.
func (b *StoreBranch) set(name string, v Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, err := b.load(name)
	if err != nil {
		return err
	}
	if cur.IsSet() && cur.Kind() != v.Kind() {
		return errors.TypeMismatch(name, cur.Kind().String(), v.Interface())
	}
	return b.save(name, v)
}

// Update implements Updater. Clear and the setters wait for it to finish.
func (b *StoreBranch) Update(name string, fn func(cur Value) (Value, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur, err := b.load(name)
	if err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	if !next.Kind().Typed() {
		return errors.UnsupportedType(name, next.Kind().String())
	}
	return b.save(name, next)
}

// GetCharPref implements Branch.
func (b *StoreBranch) GetCharPref(name string) (string, error) {
	v, err := b.get(name, KindString)
	return v.Str(), err
}

// SetCharPref implements Branch.
func (b *StoreBranch) SetCharPref(name string, value string) error {
	return b.set(name, StringValue(value))
}

// GetIntPref implements Branch.
func (b *StoreBranch) GetIntPref(name string) (int, error) {
	v, err := b.get(name, KindInt)
	return v.Int(), err
}

// SetIntPref implements Branch.
func (b *StoreBranch) SetIntPref(name string, value int) error {
	return b.set(name, IntValue(value))
}

// GetBoolPref implements Branch.
func (b *StoreBranch) GetBoolPref(name string) (bool, error) {
	v, err := b.get(name, KindBool)
	return v.Bool(), err
}

// SetBoolPref implements Branch.
func (b *StoreBranch) SetBoolPref(name string, value bool) error {
	return b.set(name, BoolValue(value))
}

// Define implements Definer.
func (b *StoreBranch) Define(name string, v Value) error {
	if name == "" {
		return errors.InvalidInput("name", "preference name is required")
	}
	if !v.Kind().Typed() {
		return errors.UnsupportedType(name, v.Kind().String())
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.save(name, v)
}

// Clear implements Definer.
func (b *StoreBranch) Clear(name string) error {
	if name == "" {
		return errors.InvalidInput("name", "preference name is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ctx, cancel := b.callContext()
	defer cancel()
	return b.store.Delete(ctx, name)
}

// Close closes the store if it holds resources.
func (b *StoreBranch) Close() error {
	if closer, ok := b.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// Define seeds name on branch. It fails if branch cannot create keys.
func Define(branch Branch, name string, v Value) error {
	d, ok := branch.(Definer)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "preference branch cannot define keys").
			WithDetail("name", name)
	}
	return d.Define(name, v)
}

// DefineDefaults defines every entry in defaults whose key does not exist yet.
// Values are classified with ValueOf; unsupported kinds are rejected.
func DefineDefaults(branch Branch, defaults map[string]any) error {
	for name, raw := range defaults {
		kind, err := branch.PrefType(name)
		if err != nil {
			return err
		}
		if kind != KindUnset {
			continue
		}
		if err := Define(branch, name, ValueOf(raw)); err != nil {
			return err
		}
	}
	return nil
}
