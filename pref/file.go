package pref

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/kbukum/hostkit/errors"
)

// FileStore persists preferences in a YAML, JSON or TOML file read through
// viper. Dotted names map to nested keys and are case-insensitive, so
// "Browser.Theme" and "browser.theme" address the same entry.
//
// Every mutation rewrites the file.
type FileStore struct {
	mu   sync.Mutex
	path string
	v    *viper.Viper
}

var _ Store = (*FileStore)(nil)

// OpenFile loads the preferences file at path. A missing file is treated as
// empty and is created on the first write.
func OpenFile(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.InvalidInput("path", "preferences file path is required")
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if !slices.Contains(viper.SupportedExts, ext) {
		return nil, errors.InvalidInput("path", fmt.Sprintf("unsupported preferences file type %q", ext))
	}

	v := viper.New()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.DatabaseError(err).WithDetail("path", path)
		}
	}
	return &FileStore{path: path, v: v}, nil
}

// NewFileBranch opens path and wraps it as a branch.
func NewFileBranch(path string, opts ...BranchOption) (*StoreBranch, error) {
	store, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	return NewStoreBranch(store, opts...), nil
}

// Path returns the file the store writes to.
func (s *FileStore) Path() string { return s.path }

// Load implements Store.
func (s *FileStore) Load(_ context.Context, name string) (Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.v.IsSet(name) {
		return Value{}, nil
	}
	return classify(s.v.Get(name)), nil
}

// classify maps a decoded file value onto a Value. Tables and lists are
// reported as invalid.
func classify(raw any) Value {
	switch raw.(type) {
	case map[string]any, []any:
		return InvalidValue(raw)
	}
	return ValueOf(raw)
}

// Save implements Store.
func (s *FileStore) Save(_ context.Context, name string, v Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(name, v.Interface())
	return s.write()
}

// Delete implements Store. Viper cannot unset a key, so the settings tree is
// rebuilt without it.
func (s *FileStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.v.IsSet(name) {
		return nil
	}

	settings := s.v.AllSettings()
	removeKey(settings, strings.Split(strings.ToLower(name), "."))

	next := viper.New()
	next.SetConfigFile(s.path)
	if err := next.MergeConfigMap(settings); err != nil {
		return errors.Internal(err)
	}
	s.v = next
	return s.write()
}

func (s *FileStore) write() error {
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return errors.DatabaseError(err).WithDetail("path", s.path)
	}
	return nil
}

func removeKey(m map[string]any, path []string) {
	if len(path) == 1 {
		delete(m, path[0])
		return
	}
	child, ok := m[path[0]].(map[string]any)
	if !ok {
		return
	}
	removeKey(child, path[1:])
	if len(child) == 0 {
		delete(m, path[0])
	}
}
