package hpke

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
)

// randReader is the random source for key generation and fresh
// encapsulations. It defaults to crypto/rand and is overridden in tests.
var randReader io.Reader = rand.Reader

// KeyFormat selects the encoding understood by ImportPublicKey and
// ImportPrivateKey.
type KeyFormat string

const (
	// KeyFormatRaw is the RFC 9180 serialized form: uncompressed points for
	// the NIST curves, raw field elements for X25519/X448.
	KeyFormatRaw KeyFormat = "raw"
	// KeyFormatJWK is the JSON Web Key form (RFC 7517), accepting the EC
	// key type for the NIST curves and OKP for X25519/X448.
	KeyFormatJWK KeyFormat = "jwk"
)

// PublicKey is a KEM public key, bound to the KEM it was created for.
type PublicKey struct {
	kem KemID
	raw []byte
	ec  *ecdh.PublicKey // parsed form, NIST KEMs only
}

// KemID returns the KEM the key belongs to.
func (k *PublicKey) KemID() KemID { return k.kem }

// Bytes returns the serialized public key.
func (k *PublicKey) Bytes() []byte {
	return append([]byte(nil), k.raw...)
}

// Equal reports whether both keys share the same KEM and serialization.
// The byte comparison runs in constant time.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.kem == other.kem &&
		len(k.raw) == len(other.raw) &&
		subtle.ConstantTimeCompare(k.raw, other.raw) == 1
}

// PrivateKey is a KEM private key. It retains its public half so that
// authenticated modes and serialization never need to recompute it.
type PrivateKey struct {
	kem KemID
	raw []byte
	ec  *ecdh.PrivateKey // parsed form, NIST KEMs only
	pub *PublicKey
}

// KemID returns the KEM the key belongs to.
func (k *PrivateKey) KemID() KemID { return k.kem }

// Bytes returns the serialized private key. The caller owns the copy and
// should zero it once done.
func (k *PrivateKey) Bytes() []byte {
	return append([]byte(nil), k.raw...)
}

// Public returns the corresponding public key.
func (k *PrivateKey) Public() *PublicKey { return k.pub }

// Equal reports whether both keys share the same KEM and serialization.
// The byte comparison runs in constant time.
func (k *PrivateKey) Equal(other *PrivateKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.kem == other.kem &&
		len(k.raw) == len(other.raw) &&
		subtle.ConstantTimeCompare(k.raw, other.raw) == 1
}

// KeyPair holds both halves of a KEM key pair.
type KeyPair struct {
	Private *PrivateKey
	Public  *PublicKey
}

// ImportPublicKey deserializes a public key for this suite's KEM.
func (s *CipherSuite) ImportPublicKey(format KeyFormat, data []byte) (*PublicKey, error) {
	switch format {
	case KeyFormatRaw:
		return s.kem.group.parsePublicKey(data)
	case KeyFormatJWK:
		raw, err := jwkDecode(s.kemID, data, false)
		if err != nil {
			return nil, err
		}
		return s.kem.group.parsePublicKey(raw)
	default:
		return nil, &ParamError{Param: "format", Reason: fmt.Sprintf("unknown key format %q", format)}
	}
}

// ImportPrivateKey deserializes a private key for this suite's KEM and
// derives its public half.
func (s *CipherSuite) ImportPrivateKey(format KeyFormat, data []byte) (*PrivateKey, error) {
	switch format {
	case KeyFormatRaw:
		return s.kem.group.parsePrivateKey(data)
	case KeyFormatJWK:
		raw, err := jwkDecode(s.kemID, data, true)
		if err != nil {
			return nil, err
		}
		defer zeroize(raw)
		return s.kem.group.parsePrivateKey(raw)
	default:
		return nil, &ParamError{Param: "format", Reason: fmt.Sprintf("unknown key format %q", format)}
	}
}

// zeroize clears secret bytes in place.
func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
