// Package kv is the small key/value mirror used by client-side state.
package kv

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

// Store is a string key/value store.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is a process-local Store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// File keeps one file per key under a directory.
type File struct {
	dir string
}

// NewFile returns a File store rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

func (f *File) Get(key string) (string, bool, error) {
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(raw), true, nil
}

// Set writes through a temp file and rename so readers never see a torn value.
func (f *File) Set(key, value string) error {
	tmp, err := os.CreateTemp(f.dir, ".kv-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *File) Delete(key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Dual writes through to both stores and reads from the first that has the key.
type Dual struct {
	Primary   Store
	Secondary Store
}

func NewDual(primary, secondary Store) *Dual {
	return &Dual{Primary: primary, Secondary: secondary}
}

func (d *Dual) Get(key string) (string, bool, error) {
	var errs []error
	for _, s := range []Store{d.Primary, d.Secondary} {
		if s == nil {
			continue
		}
		v, ok, err := s.Get(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			return v, true, nil
		}
	}
	return "", false, errors.Join(errs...)
}

func (d *Dual) Set(key, value string) error {
	var errs []error
	for _, s := range []Store{d.Primary, d.Secondary} {
		if s == nil {
			continue
		}
		if err := s.Set(key, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dual) Delete(key string) error {
	var errs []error
	for _, s := range []Store{d.Primary, d.Secondary} {
		if s == nil {
			continue
		}
		if err := s.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
	_ Store = (*Dual)(nil)
)
