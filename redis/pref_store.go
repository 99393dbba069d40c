package redis

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/pref"
)

const (
	fieldKind  = "kind"
	fieldValue = "value"
)

// PrefStore implements pref.Store with one hash per preference.
type PrefStore struct {
	client    *Client
	keyPrefix string
}

var _ pref.Store = (*PrefStore)(nil)

// NewPrefStore creates a PrefStore backed by client. All keys are prefixed
// with keyPrefix followed by a colon separator.
func NewPrefStore(client *Client, keyPrefix string) *PrefStore {
	return &PrefStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// NewPrefBranch wraps a PrefStore as a preference branch.
func NewPrefBranch(client *Client, keyPrefix string, opts ...pref.BranchOption) *pref.StoreBranch {
	return pref.NewStoreBranch(NewPrefStore(client, keyPrefix), opts...)
}

func (s *PrefStore) fullKey(name string) string {
	if s.keyPrefix == "" {
		return name
	}
	return s.keyPrefix + ":" + name
}

// Load implements pref.Store. A key holding something other than a hash
// loads as an invalid value.
func (s *PrefStore) Load(ctx context.Context, name string) (pref.Value, error) {
	fields, err := s.client.HGetAll(ctx, s.fullKey(name))
	if goredis.HasErrorPrefix(err, "WRONGTYPE") {
		return pref.InvalidValue(nil), nil
	}
	if err != nil {
		return pref.Value{}, errors.ExternalServiceError("redis", err).WithDetail("key", name)
	}
	if len(fields) == 0 {
		return pref.Value{}, nil
	}
	kind, ok := fields[fieldKind]
	if !ok {
		return pref.InvalidValue(fields), nil
	}
	return pref.DecodeValue(pref.ParseKind(kind), fields[fieldValue])
}

// Save implements pref.Store.
func (s *PrefStore) Save(ctx context.Context, name string, v pref.Value) error {
	err := s.client.HSet(ctx, s.fullKey(name), map[string]string{
		fieldKind:  v.Kind().String(),
		fieldValue: v.Encode(),
	})
	if err != nil {
		return errors.ExternalServiceError("redis", err).WithDetail("key", name)
	}
	return nil
}

// Delete implements pref.Store.
func (s *PrefStore) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, s.fullKey(name)); err != nil {
		return errors.ExternalServiceError("redis", err).WithDetail("key", name)
	}
	return nil
}
