package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// New creates a RunStore for the configured backend. An empty backend
// selects memory.
func New(backend, path string) (RunStore, error) {
	switch backend {
	case "sqlite":
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage directory %s: %w", dir, err)
		}
		return NewSQLiteRunStore(path)

	case "memory", "":
		return NewMemoryRunStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (expected 'memory' or 'sqlite')", backend)
	}
}
