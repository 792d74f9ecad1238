package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirKV keeps one JSON file per key inside a directory.
// Human-readable and portable; fine for a local single-user tool.
type DirKV struct {
	dir string
}

// OpenDir creates dir if needed.
func OpenDir(dir string) (*DirKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &DirKV{dir: dir}, nil
}

func (d *DirKV) path(key string) string {
	return filepath.Join(d.dir, key+".json")
}

func (d *DirKV) Get(key string) ([]byte, bool, error) {
	if err := validKey(key); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	return b, true, nil
}

// Set writes through a temp file and renames it over the target so a
// crash never leaves a half-written value behind.
func (d *DirKV) Set(key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.path(key)); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (d *DirKV) Close() error { return nil }
