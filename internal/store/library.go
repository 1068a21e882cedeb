package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/monad-vault/internal/crypto"
	"github.com/MKhiriev/monad-vault/internal/logger"
	"github.com/MKhiriev/monad-vault/models"
)

// recordExt is the file extension of encrypted record files.
const recordExt = ".enc"

// Library is the encrypted content store. Every save encrypts a freshly
// constructed record under the current app key and writes it atomically to
// the owning chat's folder; records are append-only and never mutated.
type Library struct {
	registry *Registry
	index    *HashtagIndex
	files    SecureFileSystem
	keys     KeyProvider
	keychain crypto.KeyChainService
	log      *logger.Logger
}

// NewLibrary wires a [Library] from its collaborators.
func NewLibrary(registry *Registry, index *HashtagIndex, files SecureFileSystem, keys KeyProvider, keychain crypto.KeyChainService, log *logger.Logger) *Library {
	return &Library{
		registry: registry,
		index:    index,
		files:    files,
		keys:     keys,
		keychain: keychain,
		log:      log,
	}
}

// SaveMessageRequest carries everything needed to save a single message.
type SaveMessageRequest struct {
	ChatID string
	Title  string
	Tags   []string
	Body   string

	// MessageID optionally references the original chat message this save
	// was made from.
	MessageID string
}

// SaveConversationRequest carries everything needed to save a full
// conversation.
type SaveConversationRequest struct {
	ChatID    string
	Title     string
	Tags      []string
	Messages  []models.ChatMessage
	StartedAt time.Time
	EndedAt   time.Time
}

// SaveMessage encrypts and persists one message. Requires an unlocked app;
// a locked session surfaces the auth layer's not-unlocked error. The
// hashtag index is updated best-effort: an index failure is logged and the
// save still succeeds.
func (l *Library) SaveMessage(ctx context.Context, req SaveMessageRequest) (models.SavedMessage, error) {
	record := models.SavedMessage{
		ID:        newRecordID(req.ChatID),
		ChatID:    req.ChatID,
		Title:     req.Title,
		Tags:      req.Tags,
		Body:      req.Body,
		MessageID: req.MessageID,
		CreatedAt: time.Now().UTC(),
	}

	if err := l.writeRecord(ctx, req.ChatID, record.ID, record); err != nil {
		return models.SavedMessage{}, fmt.Errorf("save message: %w", err)
	}

	l.indexTags(ctx, req.ChatID, req.Tags, record.ID)
	return record, nil
}

// SaveConversation encrypts and persists a full conversation. Same contract
// as [Library.SaveMessage].
func (l *Library) SaveConversation(ctx context.Context, req SaveConversationRequest) (models.SavedConversation, error) {
	record := models.SavedConversation{
		ID:        newRecordID(req.ChatID),
		ChatID:    req.ChatID,
		Title:     req.Title,
		Tags:      req.Tags,
		Messages:  req.Messages,
		StartedAt: req.StartedAt,
		EndedAt:   req.EndedAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := l.writeRecord(ctx, req.ChatID, record.ID, record); err != nil {
		return models.SavedConversation{}, fmt.Errorf("save conversation: %w", err)
	}

	l.indexTags(ctx, req.ChatID, req.Tags, record.ID)
	return record, nil
}

// LoadMessage reads and decrypts one saved message.
func (l *Library) LoadMessage(ctx context.Context, chatID, recordID string) (models.SavedMessage, error) {
	var record models.SavedMessage
	if err := l.readRecord(ctx, chatID, recordID, &record); err != nil {
		return models.SavedMessage{}, fmt.Errorf("load message %s: %w", recordID, err)
	}
	return record, nil
}

// LoadConversation reads and decrypts one saved conversation.
func (l *Library) LoadConversation(ctx context.Context, chatID, recordID string) (models.SavedConversation, error) {
	var record models.SavedConversation
	if err := l.readRecord(ctx, chatID, recordID, &record); err != nil {
		return models.SavedConversation{}, fmt.Errorf("load conversation %s: %w", recordID, err)
	}
	return record, nil
}

// ListRecordIDs returns the sorted record ids stored in a chat's folder.
func (l *Library) ListRecordIDs(ctx context.Context, chatID string) ([]string, error) {
	folder, err := l.registry.StoragePath(ctx, chatID)
	if err != nil {
		return nil, err
	}

	names, err := l.files.ListFolder(folder)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasSuffix(name, recordExt) {
			ids = append(ids, strings.TrimSuffix(name, recordExt))
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// SearchChats filters the chat registry by tags and title substring. Tag
// filtering runs first (union across the requested tags, intersected with
// the registry), then the title filter; empty filters return the full
// registry unfiltered.
func (l *Library) SearchChats(ctx context.Context, q string, tags []string) ([]models.ChatDescriptor, error) {
	descriptors, err := l.registry.All(ctx)
	if err != nil {
		return nil, err
	}
	if q == "" && len(tags) == 0 {
		return descriptors, nil
	}

	results := descriptors
	if len(tags) > 0 {
		matched, err := l.index.ChatIDs(ctx, tags)
		if err != nil {
			return nil, err
		}
		filtered := results[:0:0]
		for _, d := range results {
			if _, ok := matched[d.ID]; ok {
				filtered = append(filtered, d)
			}
		}
		results = filtered
	}

	if q != "" {
		query := strings.ToLower(q)
		filtered := results[:0:0]
		for _, d := range results {
			if strings.Contains(strings.ToLower(d.Title), query) {
				filtered = append(filtered, d)
			}
		}
		results = filtered
	}

	return results, nil
}

// writeRecord runs the save pipeline: resolve the chat folder (creating it
// if missing), serialize, encrypt under the app key, and write the blob
// envelope atomically.
func (l *Library) writeRecord(ctx context.Context, chatID, recordID string, payload any) error {
	key, err := l.keys.AppKey()
	if err != nil {
		return err
	}

	folder, err := l.registry.StoragePath(ctx, chatID)
	if err != nil {
		return err
	}
	if err = l.files.EnsureFolder(folder); err != nil {
		return err
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	blob, err := l.keychain.Encrypt(string(plaintext), key)
	if err != nil {
		return fmt.Errorf("encrypt record: %w", err)
	}

	envelope, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode blob envelope: %w", err)
	}

	if err = l.files.WriteSecure(filepath.Join(folder, recordID+recordExt), envelope); err != nil {
		return err
	}

	l.log.Debug().Str("chat_id", chatID).Str("record_id", recordID).Msg("record saved")
	return nil
}

// readRecord mirrors writeRecord: fetch the blob envelope, decrypt with the
// app key, deserialize into target. A tag failure surfaces as the crypto
// layer's decryption error, never as garbled plaintext.
func (l *Library) readRecord(ctx context.Context, chatID, recordID string, target any) error {
	key, err := l.keys.AppKey()
	if err != nil {
		return err
	}

	folder, err := l.registry.StoragePath(ctx, chatID)
	if err != nil {
		return err
	}

	data, err := l.files.ReadSecure(filepath.Join(folder, recordID+recordExt))
	if errors.Is(err, ErrFileNotFound) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, recordID)
	}
	if err != nil {
		return err
	}

	var blob models.EncryptedBlob
	if err = json.Unmarshal(data, &blob); err != nil {
		return fmt.Errorf("%w: blob envelope: %v", ErrCorruptData, err)
	}

	plaintext, err := l.keychain.Decrypt(blob, key)
	if err != nil {
		return err
	}

	if err = json.Unmarshal([]byte(plaintext), target); err != nil {
		return fmt.Errorf("%w: decrypted record: %v", ErrCorruptData, err)
	}
	return nil
}

// indexTags updates the hashtag index for a finished save. Failures are
// logged and swallowed: the index is a convenience structure, not the
// durability guarantee.
func (l *Library) indexTags(ctx context.Context, chatID string, tags []string, recordID string) {
	if err := l.index.Add(ctx, chatID, tags, recordID); err != nil {
		l.log.Warn().Err(err).Str("record_id", recordID).Msg("hashtag index update failed")
	}
}

// newRecordID builds a record id unique per save: the owning chat id plus a
// time-ordered UUID, so ids sort roughly by creation time within a chat.
func newRecordID(chatID string) string {
	v7, err := uuid.NewV7()
	if err != nil {
		return chatID + "-" + uuid.NewString()
	}
	return chatID + "-" + v7.String()
}

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]+|\s+`)

// SanitizeFilename makes a title safe to use as a file name.
func SanitizeFilename(name string) string {
	safe := unsafeFilenameChars.ReplaceAllString(name, "_")
	if len(safe) > 255 {
		safe = safe[:255]
	}
	return safe
}

// ContentHash returns the hex SHA-256 of content, used to detect duplicate
// bodies before saving them again.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
