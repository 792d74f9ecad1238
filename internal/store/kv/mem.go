package kv

import "maps"

// MemKV is an in-memory KV. Values are copied in and out.
type MemKV struct {
	m map[string][]byte
}

func NewMem() *MemKV { return &MemKV{m: map[string][]byte{}} }

func (m *MemKV) Get(key string) ([]byte, bool, error) {
	v, ok := m.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemKV) Set(key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	m.m[key] = append([]byte(nil), value...)
	return nil
}

// Snapshot returns a copy of the stored keys and values.
func (m *MemKV) Snapshot() map[string][]byte { return maps.Clone(m.m) }

func (m *MemKV) Close() error { return nil }
