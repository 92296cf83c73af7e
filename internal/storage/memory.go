package storage

import (
	"bytes"
	"sync"
)

// MemoryStore keeps values in a map. It backs tests and ephemeral sessions.
type MemoryStore struct {
	mu        sync.RWMutex
	values    map[string][]byte
	writeFail error
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeFail != nil {
		return &WriteError{Key: key, Err: s.writeFail}
	}
	s.values[key] = bytes.Clone(value)
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// FailWrites makes every subsequent Set fail with err. Passing nil restores
// normal behaviour.
func (s *MemoryStore) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeFail = err
}
