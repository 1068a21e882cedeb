package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/MKhiriev/monad-vault/models"
)

// Fast Argon2id params for tests. Production defaults cost 64 MiB per call.
func testParams() models.KdfParams {
	return models.KdfParams{MemoryKiB: 64, Time: 1, Parallelism: 1}
}

func TestGenerateSalt_LengthAndRandomness(t *testing.T) {
	svc := NewKeyChainService()

	s1, err := svc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}
	s2, err := svc.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt error: %v", err)
	}

	if len(s1) != 16 {
		t.Fatalf("salt length = %d, want 16", len(s1))
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected salts to differ, but they are equal")
	}
}

func TestDeriveKey_GeneratesSaltWhenOmitted(t *testing.T) {
	svc := NewKeyChainService()

	_, salt, err := svc.DeriveKey("correct horse battery staple", nil, testParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	if len(salt) != 16 {
		t.Fatalf("returned salt length = %d, want 16", len(salt))
	}
}

func TestDeriveKey_ZeroParamsFallBackToDefaults(t *testing.T) {
	svc := NewKeyChainService()

	// All-zero params come from auth records written before a field existed;
	// they must derive with the service defaults instead of failing.
	key, _, err := svc.DeriveKey("legacy record password", nil, models.KdfParams{})
	if err != nil {
		t.Fatalf("DeriveKey with zero params error: %v", err)
	}

	blob, err := svc.Encrypt("probe", key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if _, err := svc.Decrypt(blob, key); err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}
}

func TestDeriveKey_UnusableMemoryPerLaneRejected(t *testing.T) {
	svc := NewKeyChainService()

	// 8 KiB total for 4 lanes is below argon2's 8 KiB-per-lane floor. Every
	// field is non-zero, so no default substitution hides the bad value.
	params := models.KdfParams{MemoryKiB: 8, Time: 1, Parallelism: 4}
	if _, _, err := svc.DeriveKey("pw", nil, params); !errors.Is(err, ErrKeyDerivationFailed) {
		t.Fatalf("DeriveKey error = %v, want ErrKeyDerivationFailed", err)
	}
}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	svc := NewKeyChainService()

	salt := bytes.Repeat([]byte{0xAB}, 16)
	k1, _, err := svc.DeriveKey("correct horse battery staple", salt, testParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, _, err := svc.DeriveKey("correct horse battery staple", salt, testParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	// The key material is opaque, so determinism is observed through the
	// cipher: data sealed under k1 must open under k2.
	blob, err := svc.Encrypt("probe", k1)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	got, err := svc.Decrypt(blob, k2)
	if err != nil {
		t.Fatalf("Decrypt with re-derived key error: %v", err)
	}
	if got != "probe" {
		t.Fatalf("round-trip through re-derived key = %q, want %q", got, "probe")
	}
}

func TestDeriveKey_DifferentSaltProducesDifferentKey(t *testing.T) {
	svc := NewKeyChainService()

	k1, _, err := svc.DeriveKey("same password", bytes.Repeat([]byte{0x01}, 16), testParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, _, err := svc.DeriveKey("same password", bytes.Repeat([]byte{0x02}, 16), testParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	blob, err := svc.Encrypt("probe", k1)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if _, err := svc.Decrypt(blob, k2); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Decrypt error = %v, want ErrDecryptionFailed", err)
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	svc := NewKeyChainService()
	key, _, err := svc.DeriveKey("round trip password", nil, testParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	plaintexts := []string{
		"",
		"short",
		`{"id":"c1-123","title":"weekly notes","tags":["Work","urgent"]}`,
		strings.Repeat("long plaintext block ", 512),
	}
	for _, pt := range plaintexts {
		blob, err := svc.Encrypt(pt, key)
		if err != nil {
			t.Fatalf("Encrypt(%d bytes) error: %v", len(pt), err)
		}
		if blob.Salt != "" {
			t.Fatalf("content blob carries salt %q, want empty", blob.Salt)
		}
		got, err := svc.Decrypt(blob, key)
		if err != nil {
			t.Fatalf("Decrypt error: %v", err)
		}
		if got != pt {
			t.Fatalf("round-trip mismatch for %d-byte plaintext", len(pt))
		}
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	svc := NewKeyChainService()
	key, _, err := svc.DeriveKey("nonce check", nil, testParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	b1, err := svc.Encrypt("same plaintext", key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	b2, err := svc.Encrypt("same plaintext", key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	iv1, _ := base64.StdEncoding.DecodeString(b1.IV)
	if len(iv1) != 12 {
		t.Fatalf("iv length = %d, want 12", len(iv1))
	}
	if b1.IV == b2.IV {
		t.Fatalf("expected different nonces for two encryptions")
	}
	if b1.Ciphertext == b2.Ciphertext {
		t.Fatalf("expected different ciphertexts for two encryptions")
	}
}

func TestDecrypt_WrongKeyRejected(t *testing.T) {
	svc := NewKeyChainService()
	k1, _, _ := svc.DeriveKey("password one", nil, testParams())
	k2, _, _ := svc.DeriveKey("password two", nil, testParams())

	blob, err := svc.Encrypt("secret body", k1)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	got, err := svc.Decrypt(blob, k2)
	if !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Decrypt error = %v, want ErrDecryptionFailed", err)
	}
	if got != "" {
		t.Fatalf("Decrypt returned plaintext %q on failure, want empty", got)
	}
}

func TestDecrypt_TamperedCiphertextRejected(t *testing.T) {
	svc := NewKeyChainService()
	key, _, _ := svc.DeriveKey("tamper check", nil, testParams())

	blob, err := svc.Encrypt("secret body", key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	ct, _ := base64.StdEncoding.DecodeString(blob.Ciphertext)
	ct[0] ^= 0xFF
	blob.Ciphertext = base64.StdEncoding.EncodeToString(ct)

	if _, err := svc.Decrypt(blob, key); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Decrypt error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDeriveSubKey_DomainSeparation(t *testing.T) {
	svc := NewKeyChainService()
	parent, _, _ := svc.DeriveKey("parent password", nil, testParams())

	j1, err := svc.DeriveSubKey(parent, "journal:1234")
	if err != nil {
		t.Fatalf("DeriveSubKey error: %v", err)
	}
	j2, err := svc.DeriveSubKey(parent, "journal:1234")
	if err != nil {
		t.Fatalf("DeriveSubKey error: %v", err)
	}
	other, err := svc.DeriveSubKey(parent, "journal:9999")
	if err != nil {
		t.Fatalf("DeriveSubKey error: %v", err)
	}

	blob, err := svc.Encrypt("journal entry", j1)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	// Same passcode reproduces the key, different passcode does not, even
	// though the parent key never changed.
	if _, err := svc.Decrypt(blob, j2); err != nil {
		t.Fatalf("Decrypt with same info error: %v", err)
	}
	if _, err := svc.Decrypt(blob, other); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Decrypt with different info error = %v, want ErrDecryptionFailed", err)
	}

	// Sub-key must also differ from the parent itself.
	if _, err := svc.Decrypt(blob, parent); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Decrypt with parent key error = %v, want ErrDecryptionFailed", err)
	}
}

func TestDeriveSubKey_RequiresParent(t *testing.T) {
	svc := NewKeyChainService()

	if _, err := svc.DeriveSubKey(nil, "journal:1234"); !errors.Is(err, ErrKeyRequired) {
		t.Fatalf("DeriveSubKey(nil) error = %v, want ErrKeyRequired", err)
	}
}

func TestHashSecret_VerifyAndMismatch(t *testing.T) {
	svc := NewKeyChainService()

	h := svc.HashSecret("Abcdefgh1234!")
	if h == "Abcdefgh1234!" || h == "" {
		t.Fatalf("HashSecret returned %q", h)
	}
	if !svc.VerifySecret("Abcdefgh1234!", h) {
		t.Fatalf("VerifySecret rejected the correct secret")
	}
	if svc.VerifySecret("wrong", h) {
		t.Fatalf("VerifySecret accepted a wrong secret")
	}
}

func TestZeroize_KeyUnusableAfter(t *testing.T) {
	svc := NewKeyChainService()
	key, _, _ := svc.DeriveKey("zeroize me", nil, testParams())

	blob, err := svc.Encrypt("before zeroize", key)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	key.Zeroize()

	// An all-zero key is still a valid AES key, but it is no longer the
	// derived key, so the blob must not open.
	if _, err := svc.Decrypt(blob, key); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Decrypt after Zeroize error = %v, want ErrDecryptionFailed", err)
	}
}
