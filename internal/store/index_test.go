package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/monad-vault/internal/logger"
)

func newTestIndex() *HashtagIndex {
	return NewHashtagIndex(NewMemoryKV(), logger.Nop())
}

func TestIndexCaseInsensitiveTags(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "chat-1", []string{"Work", " URGENT "}, "rec-1"))
	require.NoError(t, idx.Add(ctx, "chat-2", []string{"work"}, "rec-2"))

	tags, err := idx.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent", "work"}, tags, "tags are stored lower-cased and trimmed")

	ids, err := idx.MessageIDs(ctx, []string{"WORK"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rec-1", "rec-2"}, ids, "lookup is case-insensitive too")
}

func TestIndexSetSemantics(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	// The same record tagged repeatedly must not accumulate duplicates.
	for i := 0; i < 3; i++ {
		require.NoError(t, idx.Add(ctx, "chat-1", []string{"work"}, "rec-1"))
	}

	ids, err := idx.MessageIDs(ctx, []string{"work"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rec-1"}, ids)

	chats, err := idx.ChatIDs(ctx, []string{"work"})
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestIndexUnionAcrossTags(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "chat-1", []string{"work", "urgent"}, "rec-1"))
	require.NoError(t, idx.Add(ctx, "chat-2", []string{"work"}, "rec-2"))
	require.NoError(t, idx.Add(ctx, "chat-3", []string{"personal"}, "rec-3"))

	ids, err := idx.MessageIDs(ctx, []string{"urgent", "personal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"rec-1", "rec-3"}, ids)

	chats, err := idx.ChatIDs(ctx, []string{"urgent", "personal"})
	require.NoError(t, err)
	assert.Contains(t, chats, "chat-1")
	assert.Contains(t, chats, "chat-3")
	assert.NotContains(t, chats, "chat-2")
}

func TestIndexUnknownTag(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "chat-1", []string{"work"}, "rec-1"))

	ids, err := idx.MessageIDs(ctx, []string{"nothing-here"})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestIndexTagsForChat(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "chat-1", []string{"work", "urgent"}, "rec-1"))
	require.NoError(t, idx.Add(ctx, "chat-2", []string{"personal"}, "rec-2"))

	tags, err := idx.TagsForChat(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"urgent", "work"}, tags)
}

func TestIndexIgnoresBlankTags(t *testing.T) {
	idx := newTestIndex()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx, "chat-1", []string{"", "   ", "real"}, "rec-1"))

	tags, err := idx.Tags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, tags)
}

func TestIndexCorruptData(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), hashtagIndexKey, []byte("[not a map]")))
	idx := NewHashtagIndex(kv, logger.Nop())

	_, err := idx.Tags(context.Background())
	assert.ErrorIs(t, err, ErrCorruptData)
}
