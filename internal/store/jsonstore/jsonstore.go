package jsonstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/idilsaglam/pocket/internal/logger"
	"github.com/idilsaglam/pocket/internal/store/kv"
)

// Store owns an ordered record sequence and mirrors it, as one JSON array,
// to a single key of a KV. Every mutation is written through before it
// returns; there is no buffering.
type Store[T any] struct {
	kv    kv.KV
	key   string
	log   *slog.Logger
	items []T
}

// CorruptSuffix is appended to the key when an unreadable value is set aside.
const CorruptSuffix = ".corrupt"

func New[T any](store kv.KV, key string, log *slog.Logger) *Store[T] {
	if log == nil {
		log = logger.Get()
	}
	return &Store[T]{kv: store, key: key, log: log.With("key", key)}
}

// Load replaces the in-memory sequence with the stored one.
// A missing key yields an empty sequence. So does a value that does not
// decode: it is copied to key+CorruptSuffix and a warning is logged.
// Only backend failures are returned as errors.
func (s *Store[T]) Load() error {
	b, ok, err := s.kv.Get(s.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.key, err)
	}
	if !ok {
		s.items = []T{}
		return nil
	}

	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		s.log.Warn("stored data is unreadable, starting empty", "err", err, "bytes", len(b))
		if err := s.kv.Set(s.key+CorruptSuffix, b); err != nil {
			s.log.Error("could not set aside unreadable data", "err", err)
		}
		s.items = []T{}
		return nil
	}
	if items == nil {
		items = []T{}
	}
	s.items = items
	s.log.Debug("loaded", "count", len(items))
	return nil
}

// Persist serialises the full sequence and writes it.
func (s *Store[T]) Persist() error {
	items := s.items
	if items == nil {
		items = []T{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := s.kv.Set(s.key, b); err != nil {
		return fmt.Errorf("persist %s: %w", s.key, err)
	}
	s.log.Debug("persisted", "count", len(items))
	return nil
}

// Items returns a copy of the current sequence.
func (s *Store[T]) Items() []T { return slices.Clone(s.items) }

// Replace swaps in items and persists them. On a write failure the
// previous sequence is kept so memory never runs ahead of storage.
func (s *Store[T]) Replace(items []T) error {
	prev := s.items
	s.items = slices.Clone(items)
	if err := s.Persist(); err != nil {
		s.items = prev
		return err
	}
	return nil
}
