package models

import "time"

// Chat kinds known to the registry.
const (
	ChatKindEveryday = "everyday"
	ChatKindJournal  = "journal"
	ChatKindPro      = "pro"
)

// ChatDescriptor is a registry entry for one logical chat. StoragePath is
// the folder all encrypted records of the chat are written under.
type ChatDescriptor struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	StoragePath string `json:"storage_path"`
}

// ChatMessage is a single message inside a conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedMessage is one message saved to the library. Records are immutable:
// saving again produces a new record with a new ID, never an update.
type SavedMessage struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	Body      string    `json:"body"`
	MessageID string    `json:"message_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedConversation is a full conversation saved to the library. Immutable,
// same append-only rule as SavedMessage.
type SavedConversation struct {
	ID        string        `json:"id"`
	ChatID    string        `json:"chat_id"`
	Title     string        `json:"title"`
	Tags      []string      `json:"tags"`
	Messages  []ChatMessage `json:"messages"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	CreatedAt time.Time     `json:"created_at"`
}

// HashtagIndexEntry maps one lower-cased tag to the chats and records that
// carry it. The id slices have set semantics: duplicates are never appended.
type HashtagIndexEntry struct {
	Tag         string    `json:"tag"`
	ChatIDs     []string  `json:"chat_ids"`
	MessageIDs  []string  `json:"message_ids"`
	LastUpdated time.Time `json:"last_updated"`
}
