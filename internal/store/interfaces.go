package store

import (
	"context"

	"github.com/MKhiriev/monad-vault/internal/crypto"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KVStore is the minimal persistence substrate for small JSON entries: the
// auth record, the chat registry, and the hashtag index. Implementations
// must be safe for concurrent use. Get returns [ErrKeyNotFound] when no
// value exists under the key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SecureFileSystem is the atomic file I/O collaborator used for encrypted
// content files. Implementations guarantee that a write is never observable
// half-done (write-to-temp-then-rename or equivalent); this package relies
// on that contract rather than implementing it per call site.
type SecureFileSystem interface {
	// WriteSecure atomically replaces the file at path with data.
	WriteSecure(path string, data []byte) error

	// ReadSecure returns the file contents, or [ErrFileNotFound].
	ReadSecure(path string) ([]byte, error)

	// EnsureFolder creates the folder (and parents) if missing. Idempotent.
	EnsureFolder(path string) error

	// ListFolder returns the file names (not paths) inside a folder.
	// A missing folder yields an empty list, not an error.
	ListFolder(path string) ([]string, error)
}

// KeyProvider yields the active app key for encryption and decryption.
// Implemented by the auth service; returns its not-unlocked error while the
// app is locked, which the library propagates unchanged.
type KeyProvider interface {
	AppKey() (*crypto.Key, error)
}
