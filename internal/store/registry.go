package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/monad-vault/internal/logger"
	"github.com/MKhiriev/monad-vault/models"
)

// chatRegistryKey is the KV entry holding the ordered chat descriptor list.
const chatRegistryKey = "chat_registry"

// Registry resolves chat ids to their descriptors and storage paths. It is
// the only component that reads or writes the chat_registry KV entry.
type Registry struct {
	kv  KVStore
	log *logger.Logger
}

// NewRegistry constructs a [Registry] over the given KV store.
func NewRegistry(kv KVStore, log *logger.Logger) *Registry {
	return &Registry{kv: kv, log: log}
}

// All returns every registered chat descriptor in stored order. An absent
// registry entry yields an empty list; an unparsable one is surfaced as
// [ErrCorruptData], never silently treated as empty.
func (r *Registry) All(ctx context.Context) ([]models.ChatDescriptor, error) {
	data, err := r.kv.Get(ctx, chatRegistryKey)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load chat registry: %w", err)
	}

	var descriptors []models.ChatDescriptor
	if err = json.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("%w: chat registry: %v", ErrCorruptData, err)
	}
	return descriptors, nil
}

// Get returns the descriptor for one chat id, or [ErrChatNotFound].
func (r *Registry) Get(ctx context.Context, chatID string) (models.ChatDescriptor, error) {
	descriptors, err := r.All(ctx)
	if err != nil {
		return models.ChatDescriptor{}, err
	}

	for _, d := range descriptors {
		if d.ID == chatID {
			return d, nil
		}
	}
	return models.ChatDescriptor{}, fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
}

// StoragePath resolves the folder all records of a chat are stored under.
func (r *Registry) StoragePath(ctx context.Context, chatID string) (string, error) {
	d, err := r.Get(ctx, chatID)
	if err != nil {
		return "", err
	}
	if d.StoragePath == "" {
		return "", fmt.Errorf("%w: chat %s has no storage path", ErrCorruptData, chatID)
	}
	return d.StoragePath, nil
}

// Save inserts or replaces a descriptor. A replaced descriptor moves to the
// end of the list; relative order of the others is preserved.
func (r *Registry) Save(ctx context.Context, descriptor models.ChatDescriptor) error {
	if descriptor.ID == "" || descriptor.StoragePath == "" {
		return fmt.Errorf("chat descriptor needs id and storage path: %+v", descriptor)
	}

	descriptors, err := r.All(ctx)
	if err != nil {
		return err
	}

	updated := make([]models.ChatDescriptor, 0, len(descriptors)+1)
	for _, d := range descriptors {
		if d.ID != descriptor.ID {
			updated = append(updated, d)
		}
	}
	updated = append(updated, descriptor)

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encode chat registry: %w", err)
	}
	if err = r.kv.Set(ctx, chatRegistryKey, data); err != nil {
		return fmt.Errorf("save chat registry: %w", err)
	}

	r.log.Debug().Str("chat_id", descriptor.ID).Msg("chat descriptor saved")
	return nil
}
