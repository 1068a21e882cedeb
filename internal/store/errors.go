package store

import "errors"

// Sentinel errors returned by storage components to signal well-known
// failure conditions. Callers should use [errors.Is] to match against these
// values.
var (
	// ErrKeyNotFound is returned by [KVStore.Get] when no value has been
	// stored under the requested key.
	ErrKeyNotFound = errors.New("key not found in kv store")

	// ErrFileNotFound is returned by [SecureFileSystem.ReadSecure] when the
	// requested path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrChatNotFound is returned when a chat id has no descriptor in the
	// registry, so no storage path can be resolved for it.
	ErrChatNotFound = errors.New("chat not found in registry")

	// ErrRecordNotFound is returned when loading a saved record whose
	// ciphertext file does not exist under the chat's folder.
	ErrRecordNotFound = errors.New("saved record not found")

	// ErrCorruptData is returned when a persisted structure (registry,
	// index, blob envelope, or decrypted record) fails to parse. The data
	// is unreadable; there is no recovery path.
	ErrCorruptData = errors.New("stored data is corrupted")
)
