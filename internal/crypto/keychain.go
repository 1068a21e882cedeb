// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/MKhiriev/monad-vault/models"
)

const (
	saltLen  = 16
	keyLen   = 32 // 256 bits, AES-256
	nonceLen = 12 // 96-bit GCM nonce
)

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. mobile vs. desktop).
	defaults models.KdfParams
}

// NewKeyChainService constructs a [KeyChainService] with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeyChainService() KeyChainService {
	return &keyChainService{
		defaults: models.KdfParams{
			MemoryKiB:   64 * 1024, // 64 MiB
			Time:        1,
			Parallelism: 4,
		},
	}
}

// GenerateSalt implements [KeyChainService]. It reads 16 random bytes from
// the OS CSPRNG. Returns an error if the random read fails.
func (k *keyChainService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DefaultParams implements [KeyChainService].
func (k *keyChainService) DefaultParams() models.KdfParams {
	return k.defaults
}

// DeriveKey implements [KeyChainService]. It runs Argon2id over the password
// with the given salt and cost parameters and imports the 32-byte output
// directly as an opaque [Key]. Zero-valued params fall back to the service
// defaults so persisted records written before a field existed still derive
// correctly.
func (k *keyChainService) DeriveKey(password string, salt []byte, params models.KdfParams) (*Key, []byte, error) {
	if len(salt) == 0 {
		fresh, err := k.GenerateSalt()
		if err != nil {
			return nil, nil, fmt.Errorf("generate salt: %w", err)
		}
		salt = fresh
	}

	if params.MemoryKiB == 0 {
		params.MemoryKiB = k.defaults.MemoryKiB
	}
	if params.Time == 0 {
		params.Time = k.defaults.Time
	}
	if params.Parallelism == 0 {
		params.Parallelism = k.defaults.Parallelism
	}
	// argon2 needs at least 8 KiB of memory per lane; treat an impossible
	// combination as a derivation failure instead of panicking in IDKey.
	if params.MemoryKiB < 8*uint32(params.Parallelism) {
		return nil, nil, fmt.Errorf("%w: unusable argon2id params %+v", ErrKeyDerivationFailed, params)
	}

	material := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Parallelism, keyLen)
	key := newKey(material)
	for i := range material {
		material[i] = 0
	}

	return key, salt, nil
}

// DeriveSubKey implements [KeyChainService]. It feeds the parent key
// material into HKDF-SHA256 keyed by the info string and reads out a fresh
// 256-bit key. The parent material never leaves this function.
func (k *keyChainService) DeriveSubKey(parent *Key, info string) (*Key, error) {
	if parent == nil || len(parent.raw) == 0 {
		return nil, fmt.Errorf("%w: parent key missing", ErrKeyRequired)
	}

	r := hkdf.New(sha256.New, parent.raw, nil, []byte(info))
	material := make([]byte, keyLen)
	if _, err := io.ReadFull(r, material); err != nil {
		return nil, fmt.Errorf("%w: hkdf expand: %v", ErrKeyDerivationFailed, err)
	}

	key := newKey(material)
	for i := range material {
		material[i] = 0
	}

	return key, nil
}

// Encrypt implements [KeyChainService]. Every call generates a fresh random
// 12-byte nonce; nonce reuse under one key is the single invariant this
// package must never break. The GCM tag is the default 128 bits.
func (k *keyChainService) Encrypt(plaintext string, key *Key) (models.EncryptedBlob, error) {
	if key == nil || len(key.raw) == 0 {
		return models.EncryptedBlob{}, ErrKeyRequired
	}

	block, err := aes.NewCipher(key.raw)
	if err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.EncryptedBlob{}, fmt.Errorf("generate nonce: %w", err)
	}

	ct := gcm.Seal(nil, nonce, []byte(plaintext), nil)

	return models.EncryptedBlob{
		Ciphertext: base64.StdEncoding.EncodeToString(ct),
		IV:         base64.StdEncoding.EncodeToString(nonce),
		Salt:       "", // only key-derivation artifacts carry a salt
	}, nil
}

// Decrypt implements [KeyChainService]. It base64-decodes the blob fields
// and opens the ciphertext. Any authentication failure surfaces as
// [ErrDecryptionFailed]; the caller cannot distinguish a wrong key from
// corrupted data, which is deliberate.
func (k *keyChainService) Decrypt(blob models.EncryptedBlob, key *Key) (string, error) {
	if key == nil || len(key.raw) == 0 {
		return "", ErrKeyRequired
	}

	ct, err := base64.StdEncoding.DecodeString(blob.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: decode ciphertext: %v", ErrDecryptionFailed, err)
	}
	nonce, err := base64.StdEncoding.DecodeString(blob.IV)
	if err != nil {
		return "", fmt.Errorf("%w: decode iv: %v", ErrDecryptionFailed, err)
	}
	if len(nonce) != nonceLen {
		return "", fmt.Errorf("%w: iv length %d", ErrDecryptionFailed, len(nonce))
	}

	block, err := aes.NewCipher(key.raw)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	pt, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	return string(pt), nil
}

// HashSecret implements [KeyChainService]. SHA-256 of the secret, base64
// encoded. This hash gates verification only; encryption strength comes from
// the Argon2id-derived key, not from this value.
func (k *keyChainService) HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// VerifySecret implements [KeyChainService]. Constant-time comparison so a
// mismatch reveals nothing about how close the guess was.
func (k *keyChainService) VerifySecret(secret, storedHash string) bool {
	computed := k.HashSecret(secret)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
