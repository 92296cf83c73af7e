package storage

import (
	"fmt"
)

const (
	TypeMemory = "memory"
	TypeFile   = "file"
	TypeBolt   = "bolt"
)

// New creates the storage backend named by kind.
func New(kind, path string) (Store, error) {
	switch kind {
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeFile:
		if path == "" {
			return nil, fmt.Errorf("file storage requires a path")
		}
		return NewFileStore(path)
	case TypeBolt:
		if path == "" {
			return nil, fmt.Errorf("bolt storage requires a path")
		}
		return NewBoltStore(path)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", kind)
	}
}
