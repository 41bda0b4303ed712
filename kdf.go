package hpke

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KdfID identifies a key derivation function from the RFC 9180 registry.
type KdfID uint16

const (
	// HkdfSha256 is HKDF with SHA-256.
	HkdfSha256 KdfID = 0x0001
	// HkdfSha384 is HKDF with SHA-384.
	HkdfSha384 KdfID = 0x0002
	// HkdfSha512 is HKDF with SHA-512.
	HkdfSha512 KdfID = 0x0003
)

// IsValid reports whether the identifier is a registered KDF.
func (id KdfID) IsValid() bool {
	switch id {
	case HkdfSha256, HkdfSha384, HkdfSha512:
		return true
	}
	return false
}

// ExtractSize returns Nh, the output size of the underlying hash in bytes.
func (id KdfID) ExtractSize() int {
	switch id {
	case HkdfSha256:
		return sha256.Size
	case HkdfSha384:
		return sha512.Size384
	case HkdfSha512:
		return sha512.Size
	}
	return 0
}

// String implements fmt.Stringer.
func (id KdfID) String() string {
	switch id {
	case HkdfSha256:
		return "HKDF-SHA256"
	case HkdfSha384:
		return "HKDF-SHA384"
	case HkdfSha512:
		return "HKDF-SHA512"
	default:
		return fmt.Sprintf("KDF(0x%04x)", uint16(id))
	}
}

func (id KdfID) hash() func() hash.Hash {
	switch id {
	case HkdfSha256:
		return sha256.New
	case HkdfSha384:
		return sha512.New384
	case HkdfSha512:
		return sha512.New
	}
	return nil
}

// extract performs HKDF-Extract. An empty salt is replaced by an all-zero
// buffer of the hash output size.
func (id KdfID) extract(salt, ikm []byte) []byte {
	if len(salt) == 0 {
		salt = make([]byte, id.ExtractSize())
	}
	return hkdf.Extract(id.hash(), ikm, salt)
}

// expand performs HKDF-Expand. Output lengths above 255 hash blocks fail.
func (id KdfID) expand(prk, info []byte, length int) ([]byte, error) {
	if maxLen := 255 * id.ExtractSize(); length > maxLen {
		return nil, fmt.Errorf("expand length %d exceeds %d", length, maxLen)
	}
	okm := make([]byte, length)
	if _, err := io.ReadFull(hkdf.Expand(id.hash(), prk, info), okm); err != nil {
		return nil, fmt.Errorf("hkdf expand: %w", err)
	}
	return okm, nil
}

// labeledExtract binds the version tag, suite identifier and label into
// HKDF-Extract (RFC 9180 §4).
func (id KdfID) labeledExtract(suiteID, salt []byte, label string, ikm []byte) []byte {
	labeled := make([]byte, 0, len(versionLabel)+len(suiteID)+len(label)+len(ikm))
	labeled = append(labeled, versionLabel...)
	labeled = append(labeled, suiteID...)
	labeled = append(labeled, label...)
	labeled = append(labeled, ikm...)
	return id.extract(salt, labeled)
}

// labeledExpand binds the output length, version tag, suite identifier and
// label into HKDF-Expand (RFC 9180 §4).
func (id KdfID) labeledExpand(suiteID, prk []byte, label string, info []byte, length int) ([]byte, error) {
	labeled := make([]byte, 2, 2+len(versionLabel)+len(suiteID)+len(label)+len(info))
	binary.BigEndian.PutUint16(labeled, uint16(length))
	labeled = append(labeled, versionLabel...)
	labeled = append(labeled, suiteID...)
	labeled = append(labeled, label...)
	labeled = append(labeled, info...)
	return id.expand(prk, labeled, length)
}
