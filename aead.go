package hpke

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// AeadID identifies an AEAD algorithm from the RFC 9180 registry.
type AeadID uint16

const (
	// Aes128Gcm is AES-128-GCM.
	Aes128Gcm AeadID = 0x0001
	// Aes256Gcm is AES-256-GCM.
	Aes256Gcm AeadID = 0x0002
	// Chacha20Poly1305 is ChaCha20-Poly1305.
	Chacha20Poly1305 AeadID = 0x0003
	// ExportOnly marks a suite that only derives exporter secrets; its
	// contexts reject seal and open.
	ExportOnly AeadID = 0xFFFF
)

// IsValid reports whether the identifier is a registered AEAD.
func (id AeadID) IsValid() bool {
	switch id {
	case Aes128Gcm, Aes256Gcm, Chacha20Poly1305, ExportOnly:
		return true
	}
	return false
}

// KeySize returns Nk, the AEAD key size in bytes.
func (id AeadID) KeySize() int {
	switch id {
	case Aes128Gcm:
		return 16
	case Aes256Gcm, Chacha20Poly1305:
		return 32
	}
	return 0
}

// NonceSize returns Nn, the AEAD nonce size in bytes.
func (id AeadID) NonceSize() int {
	switch id {
	case Aes128Gcm, Aes256Gcm:
		return 12
	case Chacha20Poly1305:
		return chacha20poly1305.NonceSize
	}
	return 0
}

// TagSize returns Nt, the AEAD authentication tag size in bytes.
func (id AeadID) TagSize() int {
	switch id {
	case Aes128Gcm, Aes256Gcm, Chacha20Poly1305:
		return 16
	}
	return 0
}

// String implements fmt.Stringer.
func (id AeadID) String() string {
	switch id {
	case Aes128Gcm:
		return "AES-128-GCM"
	case Aes256Gcm:
		return "AES-256-GCM"
	case Chacha20Poly1305:
		return "ChaCha20-Poly1305"
	case ExportOnly:
		return "Export-Only"
	default:
		return fmt.Sprintf("AEAD(0x%04x)", uint16(id))
	}
}

// newCipher instantiates the AEAD for a derived key. ExportOnly has no
// cipher to instantiate.
func (id AeadID) newCipher(key []byte) (cipher.AEAD, error) {
	if id == ExportOnly {
		return nil, fmt.Errorf("%w: export-only AEAD has no cipher", ErrNotSupported)
	}
	if len(key) != id.KeySize() {
		return nil, fmt.Errorf("%w: key size %d, want %d", ErrInvalidParam, len(key), id.KeySize())
	}
	switch id {
	case Aes128Gcm, Aes256Gcm:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	case Chacha20Poly1305:
		return chacha20poly1305.New(key)
	}
	return nil, fmt.Errorf("%w: unknown AEAD 0x%04x", ErrNotSupported, uint16(id))
}
