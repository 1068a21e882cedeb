package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/monad-vault/internal/logger"
	"github.com/MKhiriev/monad-vault/models"
)

// hashtagIndexKey is the KV entry holding the tag inverted index.
const hashtagIndexKey = "hashtag_index"

// HashtagIndex maintains the inverted index tag -> {chat ids, record ids}
// over plaintext metadata, so tag search works without decrypting content.
// It is a best-effort secondary structure: the encrypted records remain the
// source of truth, and an index update failure never fails the parent save.
type HashtagIndex struct {
	kv  KVStore
	log *logger.Logger
}

// NewHashtagIndex constructs a [HashtagIndex] over the given KV store.
func NewHashtagIndex(kv KVStore, log *logger.Logger) *HashtagIndex {
	return &HashtagIndex{kv: kv, log: log}
}

// Add records that contentID (a saved record) in chatID carries the given
// tags. Tags are lower-cased before indexing, so "Work" and "work" collide
// to one entry; id slices keep set semantics (no duplicates accumulate).
func (i *HashtagIndex) Add(ctx context.Context, chatID string, tags []string, contentID string) error {
	if len(tags) == 0 {
		return nil
	}

	index, err := i.load(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}

		entry, ok := index[normalized]
		if !ok {
			entry = models.HashtagIndexEntry{Tag: normalized}
		}
		entry.ChatIDs = appendUnique(entry.ChatIDs, chatID)
		entry.MessageIDs = appendUnique(entry.MessageIDs, contentID)
		entry.LastUpdated = now
		index[normalized] = entry
	}

	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode hashtag index: %w", err)
	}
	if err = i.kv.Set(ctx, hashtagIndexKey, data); err != nil {
		return fmt.Errorf("save hashtag index: %w", err)
	}
	return nil
}

// Tags returns every known tag, sorted.
func (i *HashtagIndex) Tags(ctx context.Context) ([]string, error) {
	index, err := i.load(ctx)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(index))
	for tag := range index {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags, nil
}

// TagsForChat returns the sorted tags that appear on any record of chatID.
func (i *HashtagIndex) TagsForChat(ctx context.Context, chatID string) ([]string, error) {
	index, err := i.load(ctx)
	if err != nil {
		return nil, err
	}

	var tags []string
	for tag, entry := range index {
		if slices.Contains(entry.ChatIDs, chatID) {
			tags = append(tags, tag)
		}
	}
	slices.Sort(tags)
	return tags, nil
}

// ChatIDs returns the union of chat id sets of the given tags (matched
// case-insensitively).
func (i *HashtagIndex) ChatIDs(ctx context.Context, tags []string) (map[string]struct{}, error) {
	index, err := i.load(ctx)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]struct{})
	for _, tag := range tags {
		entry, ok := index[strings.ToLower(strings.TrimSpace(tag))]
		if !ok {
			continue
		}
		for _, id := range entry.ChatIDs {
			matched[id] = struct{}{}
		}
	}
	return matched, nil
}

// MessageIDs returns the sorted union of record id sets of the given tags.
func (i *HashtagIndex) MessageIDs(ctx context.Context, tags []string) ([]string, error) {
	index, err := i.load(ctx)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]struct{})
	for _, tag := range tags {
		entry, ok := index[strings.ToLower(strings.TrimSpace(tag))]
		if !ok {
			continue
		}
		for _, id := range entry.MessageIDs {
			matched[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(matched))
	for id := range matched {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (i *HashtagIndex) load(ctx context.Context) (map[string]models.HashtagIndexEntry, error) {
	data, err := i.kv.Get(ctx, hashtagIndexKey)
	if errors.Is(err, ErrKeyNotFound) {
		return make(map[string]models.HashtagIndexEntry), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load hashtag index: %w", err)
	}

	index := make(map[string]models.HashtagIndexEntry)
	if err = json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("%w: hashtag index: %v", ErrCorruptData, err)
	}
	return index, nil
}

func appendUnique(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}
