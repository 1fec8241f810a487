// Package storage provides durable key-value slots for task snapshots.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the slot holds no value.
var ErrNotFound = errors.New("slot not found")

// Slot stores opaque values under string keys. Set fully overwrites
// the previous value. Concurrent writers resolve as last-write-wins.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// SQLiteFileName is the database file used by the sqlite backend inside the data dir.
const SQLiteFileName = "blossom.db"

// Open returns the slot backend named by backend, rooted at dataDir.
func Open(backend, dataDir string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileSlot(dataDir)
	case BackendSQLite:
		return OpenSQLiteSlot(filepath.Join(dataDir, SQLiteFileName))
	case BackendMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want file, sqlite, or memory)", backend)
	}
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("slot key is empty")
	}
	return nil
}
