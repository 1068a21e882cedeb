package models

// KdfParams holds the Argon2id cost parameters used to derive the app key
// from the master password. They are persisted alongside the salt so that a
// later unlock re-derives the byte-for-byte identical key.
type KdfParams struct {
	// MemoryKiB is the Argon2id memory cost in KiB.
	MemoryKiB uint32 `json:"memory_kib"`

	// Time is the Argon2id iteration count.
	Time uint32 `json:"time"`

	// Parallelism is the Argon2id lane count.
	Parallelism uint8 `json:"parallelism"`
}

// AuthRecord is the persisted authentication state. It carries everything
// needed to verify the master password and re-derive the app key, and
// nothing else: no derived key and no plaintext secret ever appears here.
//
// Losing this record makes all encrypted data permanently unrecoverable —
// there is no password-reset path.
type AuthRecord struct {
	// PasswordHash is a one-way hash of the master password, used only for
	// verification. Key derivation never reads it.
	PasswordHash string `json:"password_hash"`

	// PasswordHint is an optional user-provided hint. Must not contain the
	// password itself; the application never validates this.
	PasswordHint string `json:"password_hint,omitempty"`

	// Salt is the base64-encoded random salt fed to the KDF. Persisted
	// because it must be stable across unlocks.
	Salt string `json:"salt"`

	// Params are the KDF cost parameters the key was originally derived
	// with.
	Params KdfParams `json:"params"`

	// JournalPasscodeHash is a one-way hash of the journal passcode.
	// Empty until a journal passcode has been set.
	JournalPasscodeHash string `json:"journal_passcode_hash,omitempty"`
}

// EncryptedBlob is the wire form of a single AES-GCM encryption. All fields
// are base64 (standard encoding). Storage treats the blob as opaque; it is
// produced and consumed only by the crypto layer.
type EncryptedBlob struct {
	// Ciphertext is the AES-GCM output including the 128-bit auth tag.
	Ciphertext string `json:"ciphertext"`

	// IV is the 12-byte nonce generated fresh for this encryption.
	IV string `json:"iv"`

	// Salt is populated only for key-derivation artifacts; empty for
	// ordinary content blobs.
	Salt string `json:"salt"`
}
