package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/monad-vault/internal/logger"
	"github.com/MKhiriev/monad-vault/models"
)

func newTestRegistry() *Registry {
	return NewRegistry(NewMemoryKV(), logger.Nop())
}

func TestRegistryEmptyByDefault(t *testing.T) {
	r := newTestRegistry()

	descriptors, err := r.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, descriptors)
}

func TestRegistrySaveAndGet(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	d := models.ChatDescriptor{
		ID:          "everyday-1",
		Kind:        models.ChatKindEveryday,
		Title:       "Groceries",
		StoragePath: "/data/chats/everyday-1",
	}
	require.NoError(t, r.Save(ctx, d))

	got, err := r.Get(ctx, "everyday-1")
	require.NoError(t, err)
	assert.Equal(t, d, got)

	path, err := r.StoragePath(ctx, "everyday-1")
	require.NoError(t, err)
	assert.Equal(t, "/data/chats/everyday-1", path)
}

func TestRegistryUnknownChat(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrChatNotFound)

	_, err = r.StoragePath(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestRegistryReplaceMovesToEnd(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Save(ctx, models.ChatDescriptor{ID: id, StoragePath: "/data/" + id}))
	}
	require.NoError(t, r.Save(ctx, models.ChatDescriptor{ID: "a", Title: "renamed", StoragePath: "/data/a"}))

	descriptors, err := r.All(ctx)
	require.NoError(t, err)
	require.Len(t, descriptors, 3)
	assert.Equal(t, "b", descriptors[0].ID)
	assert.Equal(t, "c", descriptors[1].ID)
	assert.Equal(t, "a", descriptors[2].ID)
	assert.Equal(t, "renamed", descriptors[2].Title)
}

func TestRegistryRejectsIncompleteDescriptor(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	assert.Error(t, r.Save(ctx, models.ChatDescriptor{StoragePath: "/data/x"}))
	assert.Error(t, r.Save(ctx, models.ChatDescriptor{ID: "x"}))
}

func TestRegistryCorruptData(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), chatRegistryKey, []byte("{broken")))
	r := NewRegistry(kv, logger.Nop())

	_, err := r.All(context.Background())
	assert.ErrorIs(t, err, ErrCorruptData)
}
