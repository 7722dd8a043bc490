// Package storage is the client's durable key/value store, the counterpart of
// a browser profile's local storage.
package storage

import (
	"sync"
)

// Keys persisted by the client. Other installs read the same keys, so the
// names and value formats are fixed.
const (
	KeyToken       = "token"
	KeyCurrentUser = "currentUser"
	KeyCart        = "cart"
)

// Store is an opaque string-keyed store with get/set/remove semantics.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Versioned stores expose a per-key version that changes on every write, so a
// Watcher can notice writes made by other processes.
type Versioned interface {
	Versions() (map[string]int64, error)
}

// MemoryStore keeps everything in process memory. Used by tests and when no
// storage path is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]string
	versions map[string]int64
	clock    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]string),
		versions: make(map[string]int64),
	}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock++
	s.values[key] = value
	s.versions[key] = s.clock
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	delete(s.versions, key)
	return nil
}

func (s *MemoryStore) Versions() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]int64, len(s.versions))
	for k, v := range s.versions {
		out[k] = v
	}
	return out, nil
}

// TokenSource reads the bearer token straight from the store on every call,
// so a login or logout in another process is picked up without notification.
type TokenSource struct {
	Store Store
}

func (t TokenSource) Token() string {
	if t.Store == nil {
		return ""
	}
	token, ok, err := t.Store.Get(KeyToken)
	if err != nil || !ok {
		return ""
	}
	return token
}
