package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Store is the local key-value surface the vault layers persist to.
// All values handed to a Store are already encrypted or non-secret.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Set stores value under key, replacing any previous value. A failed
	// Set leaves the previous value in place and returns a *WriteError.
	Set(key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error

	// Close releases the resources held by the store.
	Close() error
}

// WriteError is an error when the underlying storage rejects a write
// (quota exceeded, read-only media, closed database).
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %q: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteError checks if error is WriteError
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
