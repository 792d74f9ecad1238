package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	file, err := OpenDir(filepath.Join(dir, "files"))
	require.NoError(t, err)
	db, err := OpenSQLite(filepath.Join(dir, "db", "pocket.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]KV{
		"file":   file,
		"sqlite": db,
		"mem":    NewMem(),
	}
}

func TestKV_GetMissing(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, ok, err := store.Get("taskData")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, v)
		})
	}
}

func TestKV_SetThenGet(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("budgetItems", []byte(`[1]`)))
			require.NoError(t, store.Set("budgetItems", []byte(`[1,2]`)))

			v, ok, err := store.Get("budgetItems")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[1,2]`, string(v))
		})
	}
}

func TestKV_KeysAreIndependent(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("taskData", []byte(`"a"`)))
			require.NoError(t, store.Set("budgetItems", []byte(`"b"`)))

			v, _, err := store.Get("taskData")
			require.NoError(t, err)
			assert.Equal(t, `"a"`, string(v))
		})
	}
}

func TestKV_RejectsBadKeys(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, store.Set("", []byte("x")))
			assert.Error(t, store.Set("../escape", []byte("x")))
		})
	}
}

func TestDirKV_WritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenDir(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("taskData", []byte(`[]`)))

	b, err := os.ReadFile(filepath.Join(dir, "taskData.json"))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestSQLiteKV_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pocket.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set("taskData", []byte(`[{"name":"x"}]`)))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := db.Get("taskData")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"x"}]`, string(v))
}

func TestMemKV_CopiesValues(t *testing.T) {
	m := NewMem()
	in := []byte("abc")
	require.NoError(t, m.Set("k", in))
	in[0] = 'z'

	v, _, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
	assert.Equal(t, map[string][]byte{"k": []byte("abc")}, m.Snapshot())
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open("file", dir)
	require.NoError(t, err)
	assert.IsType(t, &DirKV{}, store)

	store, err = Open("SQLite", dir)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, store)
	require.NoError(t, store.Close())
	assert.FileExists(t, SQLitePath(dir))

	_, err = Open("redis", dir)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
