package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/AlexZinkM/local-vault/internal/common"

	"github.com/gofrs/flock"
)

// FileStore keeps all keys in a single JSON object file. Values are opaque
// bytes (base64 in the file). Several processes may share one file: every
// operation holds an advisory lock on path+".lock" and re-reads the file, so
// a write never replays a stale copy of another process's keys. Every write
// replaces the file atomically, so a crash mid-write leaves the previous
// contents.
type FileStore struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock

	createTemp func(dir, pattern string) (*os.File, error)
}

// NewFileStore opens the store at path, creating the parent directory if
// needed. A missing file is an empty store; an unreadable one is an error.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &FileStore{
		path:       path,
		lock:       flock.New(path + ".lock"),
		createTemp: os.CreateTemp,
	}

	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock store file: %w", err)
	}
	defer s.lock.Unlock()

	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock store file: %w", err)
	}
	defer s.lock.Unlock()

	values, err := s.load()
	if err != nil {
		return nil, err
	}
	v, ok := values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	return s.update(key, func(values map[string][]byte) bool {
		values[key] = append([]byte{}, value...)
		return true
	})
}

func (s *FileStore) Remove(key string) error {
	return s.update(key, func(values map[string][]byte) bool {
		if _, ok := values[key]; !ok {
			return false
		}
		delete(values, key)
		return true
	})
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lock.Close()
}

// update applies mutate to the current file contents under the exclusive
// lock and writes the result back if mutate reports a change.
func (s *FileStore) update(key string, mutate func(map[string][]byte) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return &WriteError{Key: key, Err: fmt.Errorf("failed to lock store file: %w", err)}
	}
	defer s.lock.Unlock()

	values, err := s.load()
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	if !mutate(values) {
		return nil
	}
	if err := s.flush(values); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return nil
}

// load reads the store file. Caller must hold the file lock.
func (s *FileStore) load() (map[string][]byte, error) {
	values := make(map[string][]byte)

	fileData, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	fileData = common.StripBOM(fileData)
	if len(fileData) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(fileData, &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store file: %w", err)
	}
	return values, nil
}

// flush writes values to a temp file in the same directory and renames it
// over the store file. Caller must hold the exclusive file lock.
func (s *FileStore) flush(values map[string][]byte) error {
	fileData, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store file: %w", err)
	}

	tmpFile, err := s.createTemp(filepath.Dir(s.path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if err := tmpFile.Chmod(0600); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmpFile.Write(fileData); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
