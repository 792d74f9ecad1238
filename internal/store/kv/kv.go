// Package kv is the durable key-value layer behind every record store.
// Each application owns exactly one key; values are opaque bytes.
package kv

import (
	"errors"
	"fmt"
	"strings"
)

// KV is a synchronous key-value store.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(key string) ([]byte, bool, error)
	// Set replaces the value for key. It returns once the write is durable.
	Set(key string, value []byte) error
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Open returns the backend named by backend, rooted at dir.
func Open(backend, dir string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return OpenDir(dir)
	case BackendSQLite:
		return OpenSQLite(SQLitePath(dir))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
