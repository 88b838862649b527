package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rpggio/planboard/internal/storage"
	"github.com/stretchr/testify/require"
)

func kvImplementations(t *testing.T) map[string]storage.KV {
	t.Helper()

	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]storage.KV{
		"sqlite": db,
		"memory": storage.NewMemory(),
	}
}

func TestKVGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, kv := range kvImplementations(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(ctx, "absent")
			require.ErrorIs(t, err, storage.ErrNotFound)
		})
	}
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range kvImplementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Put(ctx, "doc", []byte(`{"a":1}`)))
			got, err := kv.Get(ctx, "doc")
			require.NoError(t, err)
			require.JSONEq(t, `{"a":1}`, string(got))

			// Overwrite replaces the previous value.
			require.NoError(t, kv.Put(ctx, "doc", []byte(`{"a":2}`)))
			got, err = kv.Get(ctx, "doc")
			require.NoError(t, err)
			require.JSONEq(t, `{"a":2}`, string(got))
		})
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	db, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Put(ctx, "doc", []byte("persisted")))
	require.NoError(t, db.Close())

	db, err = storage.OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Get(ctx, "doc")
	require.NoError(t, err)
	require.Equal(t, "persisted", string(got))
}
