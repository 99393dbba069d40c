package pref

import (
	"context"
	"time"

	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/observability"
)

// Bridge forwards typed preference access to a Branch. The zero value is not
// usable; construct one with NewBridge.
type Bridge struct {
	locator func() di.Container
	branch  Branch
	metrics *observability.Metrics
}

// Option configures a Bridge or a single package-level call.
type Option func(*Bridge)

// WithLocator resolves the branch from c instead of the process-wide locator.
func WithLocator(c di.Container) Option {
	return func(b *Bridge) {
		b.locator = func() di.Container { return c }
	}
}

// WithBranch uses branch directly and skips the locator.
func WithBranch(branch Branch) Option {
	return func(b *Bridge) { b.branch = branch }
}

// WithMetrics records the outcome and latency of every Get and Set.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

// NewBridge returns a bridge. Without options it resolves a branch from
// di.Default() on every call.
func NewBridge(opts ...Option) *Bridge {
	b := &Bridge{locator: di.Default}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Service returns the branch the bridge operates on.
func (b *Bridge) Service() (Branch, error) {
	if b.branch != nil {
		return b.branch, nil
	}
	branch, err := di.Resolve[Branch](b.locator(), di.Contracts.PreferenceBranch)
	if err != nil {
		return nil, errors.ServiceUnavailable("preferences").WithCause(err)
	}
	return branch, nil
}

// Get reads name using the getter that matches its stored kind.
func (b *Bridge) Get(name string) (_ Value, err error) {
	defer b.record("get", time.Now(), &err)

	branch, kind, err := b.lookup(name)
	if err != nil {
		return Value{}, err
	}

	switch kind {
	case KindString:
		s, err := branch.GetCharPref(name)
		if err != nil {
			return Value{}, wrapBackend(err)
		}
		return StringValue(s), nil
	case KindInt:
		i, err := branch.GetIntPref(name)
		if err != nil {
			return Value{}, wrapBackend(err)
		}
		return IntValue(i), nil
	case KindBool:
		v, err := branch.GetBoolPref(name)
		if err != nil {
			return Value{}, wrapBackend(err)
		}
		return BoolValue(v), nil
	case KindUnset:
		return Value{}, errors.NotFound("preference", name)
	default:
		return Value{}, errors.UnsupportedType(name, kind.String())
	}
}

// Set writes value to name using the setter that matches the stored kind.
// value is coerced to that kind first. Absent keys are not created. Branches
// that implement Updater check the key and write it under one lock.
func (b *Bridge) Set(name string, value any) (err error) {
	defer b.record("set", time.Now(), &err)

	if name == "" {
		return errors.InvalidInput("name", "preference name is required")
	}
	branch, err := b.Service()
	if err != nil {
		return err
	}
	if u, ok := branch.(Updater); ok {
		return wrapBackend(u.Update(name, func(cur Value) (Value, error) {
			if err := settable(name, cur.Kind()); err != nil {
				return Value{}, err
			}
			return coerce(name, cur.Kind(), value)
		}))
	}

	kind, err := branch.PrefType(name)
	if err != nil {
		return wrapBackend(err)
	}
	if err := settable(name, kind); err != nil {
		return err
	}
	v, err := coerce(name, kind, value)
	if err != nil {
		return err
	}

	switch kind {
	case KindString:
		err = branch.SetCharPref(name, v.Str())
	case KindInt:
		err = branch.SetIntPref(name, v.Int())
	case KindBool:
		err = branch.SetBoolPref(name, v.Bool())
	}
	return wrapBackend(err)
}

// settable rejects absent keys and kinds without a setter.
func settable(name string, kind Kind) error {
	switch kind {
	case KindUnset:
		return errors.NotFound("preference", name)
	case KindString, KindInt, KindBool:
		return nil
	default:
		return errors.UnsupportedType(name, kind.String())
	}
}

func (b *Bridge) record(op string, start time.Time, err *error) {
	b.metrics.RecordOperation(context.Background(), "preferences", op, observability.StatusOf(*err), time.Since(start))
}

// lookup resolves the branch and the stored kind of name.
func (b *Bridge) lookup(name string) (Branch, Kind, error) {
	if name == "" {
		return nil, KindUnset, errors.InvalidInput("name", "preference name is required")
	}
	branch, err := b.Service()
	if err != nil {
		return nil, KindUnset, err
	}
	kind, err := branch.PrefType(name)
	if err != nil {
		return nil, KindUnset, wrapBackend(err)
	}
	return branch, kind, nil
}

// wrapBackend passes AppErrors through and reports anything else as a
// failure of the preference service.
func wrapBackend(err error) error {
	if err == nil || errors.IsAppError(err) {
		return err
	}
	return errors.ExternalServiceError("preferences", err)
}
