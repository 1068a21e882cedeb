// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

// Key is an opaque 256-bit symmetric key. The raw bytes are unexported and
// there is no accessor: once constructed, a key can be used for encryption
// and sub-key derivation but calling code can never read the material back.
// Keys live only in process memory and must never be persisted.
type Key struct {
	raw []byte
}

// newKey copies material into a fresh Key. The caller keeps ownership of
// material and should zeroize its own copy when done.
func newKey(material []byte) *Key {
	k := &Key{raw: make([]byte, len(material))}
	copy(k.raw, material)
	return k
}

// Zeroize overwrites the key material. Called on lock so the key does not
// linger in memory longer than the session.
func (k *Key) Zeroize() {
	if k == nil {
		return
	}
	for i := range k.raw {
		k.raw[i] = 0
	}
}
