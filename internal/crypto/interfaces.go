package crypto

import "github.com/MKhiriev/monad-vault/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_service_mock.go -package=mock

// KeyChainService owns every cryptographic operation of the vault. It knows
// nothing about storage or sessions; its only job is deriving keys and
// transforming bytes under them.
//
// Scheme:
//
//	appKey     = DeriveKey(password, salt, params)      Argon2id
//	journalKey = DeriveSubKey(appKey, "journal:"+pass)  HKDF-SHA256
//	blob       = Encrypt(plaintext, key)                AES-256-GCM
type KeyChainService interface {
	// GenerateSalt returns 16 random bytes from the OS CSPRNG. The salt is
	// not secret; it only makes equal passwords derive different keys.
	GenerateSalt() ([]byte, error)

	// DefaultParams returns the Argon2id cost parameters used for new
	// derivations.
	DefaultParams() models.KdfParams

	// DeriveKey turns a password into a 256-bit key via Argon2id. A nil or
	// empty salt generates a fresh one; the salt actually used is returned
	// so it can be persisted. Identical (password, salt, params) always
	// yield the identical key.
	DeriveKey(password string, salt []byte, params models.KdfParams) (*Key, []byte, error)

	// DeriveSubKey derives a secondary key from parent and a
	// domain-separation info string via HKDF-SHA256. The parent material is
	// used transiently in-process and never stored.
	DeriveSubKey(parent *Key, info string) (*Key, error)

	// Encrypt seals a UTF-8 plaintext under key with AES-256-GCM, using a
	// fresh random 12-byte nonce for every call.
	Encrypt(plaintext string, key *Key) (models.EncryptedBlob, error)

	// Decrypt opens a blob produced by Encrypt. Returns
	// [ErrDecryptionFailed] if the auth tag does not verify; never returns
	// garbled plaintext.
	Decrypt(blob models.EncryptedBlob, key *Key) (string, error)

	// HashSecret returns a one-way verification hash of a password or
	// passcode, safe to persist. Never used as key material.
	HashSecret(secret string) string

	// VerifySecret compares secret against a stored HashSecret value in
	// constant time.
	VerifySecret(secret, storedHash string) bool
}
