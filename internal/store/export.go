package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/monad-vault/models"
)

// RenderConversationText renders a saved conversation as plain text, one
// block per message. This is the export format; richer formats (PDF, RTF)
// belong to the desktop shell, not this core.
func RenderConversationText(conv models.SavedConversation) string {
	var b strings.Builder

	title := conv.Title
	if title == "" {
		title = "conversation"
	}
	fmt.Fprintf(&b, "%s\n", title)
	fmt.Fprintf(&b, "chat: %s\n", conv.ChatID)
	if len(conv.Tags) > 0 {
		fmt.Fprintf(&b, "tags: %s\n", strings.Join(conv.Tags, ", "))
	}
	fmt.Fprintf(&b, "from %s to %s\n\n",
		conv.StartedAt.Format(time.RFC3339), conv.EndedAt.Format(time.RFC3339))

	for _, m := range conv.Messages {
		fmt.Fprintf(&b, "[%s] %s\n%s\n\n", m.Role, m.CreatedAt.Format(time.RFC3339), m.Content)
	}

	return b.String()
}

// ExportConversation decrypts a saved conversation and writes its plain-text
// rendering next to the encrypted records of the chat. The export is
// plaintext by the user's explicit request; the encrypted record stays
// untouched. Returns the path written.
func (l *Library) ExportConversation(ctx context.Context, chatID, recordID string) (string, error) {
	conv, err := l.LoadConversation(ctx, chatID, recordID)
	if err != nil {
		return "", err
	}

	folder, err := l.registry.StoragePath(ctx, chatID)
	if err != nil {
		return "", err
	}

	title := conv.Title
	if title == "" {
		title = "conversation"
	}
	name := fmt.Sprintf("%s_%d.txt", SanitizeFilename(title), time.Now().Unix())
	path := filepath.Join(folder, name)

	if err = l.files.WriteSecure(path, []byte(RenderConversationText(conv))); err != nil {
		return "", fmt.Errorf("export conversation %s: %w", recordID, err)
	}
	return path, nil
}
