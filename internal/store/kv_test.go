package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/monad-vault/internal/logger"
)

// TestKVStoreContract runs the shared KVStore contract against every
// backend, so swapping the configured substrate never changes behavior.
func TestKVStoreContract(t *testing.T) {
	backends := map[string]func(t *testing.T) KVStore{
		"memory": func(t *testing.T) KVStore {
			return NewMemoryKV()
		},
		"file": func(t *testing.T) KVStore {
			kv, err := NewFileKV(filepath.Join(t.TempDir(), "kv"), NewOSSecureFiles())
			require.NoError(t, err)
			return kv
		},
		"sqlite": func(t *testing.T) KVStore {
			kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "vault.db"), logger.Nop())
			require.NoError(t, err)
			t.Cleanup(func() { kv.Close() })
			return kv
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			kv := open(t)
			ctx := context.Background()

			t.Run("missing key", func(t *testing.T) {
				_, err := kv.Get(ctx, "absent")
				assert.ErrorIs(t, err, ErrKeyNotFound)
			})

			t.Run("set and get", func(t *testing.T) {
				require.NoError(t, kv.Set(ctx, "greeting", []byte(`{"v":1}`)))

				got, err := kv.Get(ctx, "greeting")
				require.NoError(t, err)
				assert.Equal(t, []byte(`{"v":1}`), got)
			})

			t.Run("overwrite replaces value", func(t *testing.T) {
				require.NoError(t, kv.Set(ctx, "counter", []byte("1")))
				require.NoError(t, kv.Set(ctx, "counter", []byte("2")))

				got, err := kv.Get(ctx, "counter")
				require.NoError(t, err)
				assert.Equal(t, []byte("2"), got)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, kv.Set(ctx, "doomed", []byte("x")))
				require.NoError(t, kv.Delete(ctx, "doomed"))

				_, err := kv.Get(ctx, "doomed")
				assert.ErrorIs(t, err, ErrKeyNotFound)
			})

			t.Run("delete missing key is a no-op", func(t *testing.T) {
				assert.NoError(t, kv.Delete(ctx, "never-existed"))
			})

			t.Run("empty value round trip", func(t *testing.T) {
				require.NoError(t, kv.Set(ctx, "empty", []byte{}))

				got, err := kv.Get(ctx, "empty")
				require.NoError(t, err)
				assert.Empty(t, got)
			})
		})
	}
}

func TestFileKVRejectsUnsafeKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir(), NewOSSecureFiles())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "a/b", `a\b`, "a:b", "a*b", "a?b"} {
		assert.Error(t, kv.Set(ctx, key, []byte("x")), "key %q must be rejected", key)
		_, err = kv.Get(ctx, key)
		assert.Error(t, err, "key %q must be rejected", key)
	}
}

func TestFileKVPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := NewFileKV(dir, NewOSSecureFiles())
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "durable", []byte("survives")))

	reopened, err := NewFileKV(dir, NewOSSecureFiles())
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, []byte("survives"), got)
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "vault.db")
	ctx := context.Background()

	kv, err := NewSQLiteKV(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "durable", []byte("survives")))
	require.NoError(t, kv.Close())

	reopened, err := NewSQLiteKV(dsn, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.Get(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, []byte("survives"), got)
}
