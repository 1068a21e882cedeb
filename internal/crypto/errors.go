package crypto

import "errors"

var (
	// ErrDecryptionFailed is returned when the GCM authentication tag does
	// not verify: either the key is wrong or the ciphertext was corrupted
	// or tampered with. There is no way to tell which, and no recovery.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrKeyDerivationFailed is returned when the Argon2id parameters are
	// unusable (zero iteration or memory cost). Fatal to the unlock
	// attempt; never retried silently.
	ErrKeyDerivationFailed = errors.New("key derivation failed")

	// ErrKeyRequired is returned when a nil key is passed to an operation
	// that needs one.
	ErrKeyRequired = errors.New("key required")
)
