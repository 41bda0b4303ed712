package hpke

import (
	"fmt"
)

// KemID identifies a key encapsulation mechanism from the RFC 9180
// registry.
type KemID uint16

const (
	// DhkemP256HkdfSha256 is DHKEM(P-256, HKDF-SHA256).
	DhkemP256HkdfSha256 KemID = 0x0010
	// DhkemP384HkdfSha384 is DHKEM(P-384, HKDF-SHA384).
	DhkemP384HkdfSha384 KemID = 0x0011
	// DhkemP521HkdfSha512 is DHKEM(P-521, HKDF-SHA512).
	DhkemP521HkdfSha512 KemID = 0x0012
	// DhkemX25519HkdfSha256 is DHKEM(X25519, HKDF-SHA256).
	DhkemX25519HkdfSha256 KemID = 0x0020
	// DhkemX448HkdfSha512 is DHKEM(X448, HKDF-SHA512).
	DhkemX448HkdfSha512 KemID = 0x0021
)

// IsValid reports whether the identifier is a registered KEM.
func (id KemID) IsValid() bool {
	switch id {
	case DhkemP256HkdfSha256, DhkemP384HkdfSha384, DhkemP521HkdfSha512,
		DhkemX25519HkdfSha256, DhkemX448HkdfSha512:
		return true
	}
	return false
}

// SharedSecretSize returns Nsecret, the size of the KEM shared secret.
func (id KemID) SharedSecretSize() int {
	switch id {
	case DhkemP256HkdfSha256, DhkemX25519HkdfSha256:
		return 32
	case DhkemP384HkdfSha384:
		return 48
	case DhkemP521HkdfSha512, DhkemX448HkdfSha512:
		return 64
	}
	return 0
}

// PrivateKeySize returns Nsk, the size of a serialized private key.
func (id KemID) PrivateKeySize() int {
	switch id {
	case DhkemP256HkdfSha256, DhkemX25519HkdfSha256:
		return 32
	case DhkemP384HkdfSha384:
		return 48
	case DhkemP521HkdfSha512:
		return 66
	case DhkemX448HkdfSha512:
		return 56
	}
	return 0
}

// PublicKeySize returns Npk, the size of a serialized public key. NIST
// curve points use the uncompressed encoding.
func (id KemID) PublicKeySize() int {
	switch id {
	case DhkemP256HkdfSha256:
		return 65
	case DhkemP384HkdfSha384:
		return 97
	case DhkemP521HkdfSha512:
		return 133
	case DhkemX25519HkdfSha256:
		return 32
	case DhkemX448HkdfSha512:
		return 56
	}
	return 0
}

// EncSize returns Nenc, the size of an encapsulated key. For the DHKEMs
// this equals the public key size.
func (id KemID) EncSize() int { return id.PublicKeySize() }

// String implements fmt.Stringer.
func (id KemID) String() string {
	switch id {
	case DhkemP256HkdfSha256:
		return "DHKEM(P-256, HKDF-SHA256)"
	case DhkemP384HkdfSha384:
		return "DHKEM(P-384, HKDF-SHA384)"
	case DhkemP521HkdfSha512:
		return "DHKEM(P-521, HKDF-SHA512)"
	case DhkemX25519HkdfSha256:
		return "DHKEM(X25519, HKDF-SHA256)"
	case DhkemX448HkdfSha512:
		return "DHKEM(X448, HKDF-SHA512)"
	default:
		return fmt.Sprintf("KEM(0x%04x)", uint16(id))
	}
}

// kdfID returns the KDF the DHKEM derives its shared secret with.
func (id KemID) kdfID() KdfID {
	switch id {
	case DhkemP256HkdfSha256, DhkemX25519HkdfSha256:
		return HkdfSha256
	case DhkemP384HkdfSha384:
		return HkdfSha384
	case DhkemP521HkdfSha512, DhkemX448HkdfSha512:
		return HkdfSha512
	}
	return 0
}

// group returns the Diffie-Hellman group backing the DHKEM.
func (id KemID) group() dhGroup {
	switch id {
	case DhkemP256HkdfSha256:
		return groupP256
	case DhkemP384HkdfSha384:
		return groupP384
	case DhkemP521HkdfSha512:
		return groupP521
	case DhkemX25519HkdfSha256:
		return groupX25519
	case DhkemX448HkdfSha512:
		return groupX448
	}
	return nil
}

// dhGroup is the curve primitive a DHKEM is built over.
type dhGroup interface {
	// generateKeyPair draws a fresh key pair from the package random
	// source.
	generateKeyPair() (*KeyPair, error)
	// deriveKeyPair deterministically derives a key pair from input keying
	// material (RFC 9180 §7.1.3).
	deriveKeyPair(ikm []byte) (*KeyPair, error)
	// dh computes the Diffie-Hellman shared value between sk and pk.
	dh(sk *PrivateKey, pk *PublicKey) ([]byte, error)
	// parsePublicKey deserializes a public key.
	parsePublicKey(data []byte) (*PublicKey, error)
	// parsePrivateKey deserializes a private key and derives its public
	// half.
	parsePrivateKey(data []byte) (*PrivateKey, error)
}

// dhKEM is the generic Diffie-Hellman KEM of RFC 9180 §4.1, parameterized
// by a group primitive and the KEM's own KDF.
type dhKEM struct {
	id    KemID
	group dhGroup
	kdf   KdfID
}

func newKEM(id KemID) dhKEM {
	return dhKEM{id: id, group: id.group(), kdf: id.kdfID()}
}

// extractAndExpand turns a raw DH value and KEM context into the KEM
// shared secret, domain-separated by the KEM-only suite identifier.
func (k dhKEM) extractAndExpand(dh, kemContext []byte) ([]byte, error) {
	sid := kemSuiteID(k.id)
	prk := k.kdf.labeledExtract(sid, nil, "eae_prk", dh)
	defer zeroize(prk)
	return k.kdf.labeledExpand(sid, prk, "shared_secret", kemContext, k.id.SharedSecretSize())
}

// dhComposite computes the DH value fed into the shared-secret derivation.
// In the authenticated modes it is the concatenation of the ephemeral and
// static contributions with the recipient, in that order. Swapping the
// order yields an incompatible shared secret.
func (k dhKEM) dhComposite(skE, skS *PrivateKey, pkR *PublicKey) ([]byte, error) {
	dh, err := k.group.dh(skE, pkR)
	if err != nil {
		return nil, err
	}
	if skS == nil {
		return dh, nil
	}
	dhS, err := k.group.dh(skS, pkR)
	if err != nil {
		zeroize(dh)
		return nil, err
	}
	both := make([]byte, 0, len(dh)+len(dhS))
	both = append(both, dh...)
	both = append(both, dhS...)
	zeroize(dh)
	zeroize(dhS)
	return both, nil
}

// encap produces an encapsulated key and shared secret for the recipient
// public key. A non-nil skS selects the authenticated variant. The
// ephemeral key pair is taken from ephemeral if non-nil, derived from seed
// if supplied, and freshly generated otherwise.
func (k dhKEM) encap(pkR *PublicKey, skS *PrivateKey, ephemeral *KeyPair, seed []byte) (enc, sharedSecret []byte, err error) {
	kpE := ephemeral
	owned := false
	switch {
	case kpE != nil:
	case seed != nil:
		kpE, err = k.group.deriveKeyPair(seed)
		owned = true
	default:
		kpE, err = k.group.generateKeyPair()
		owned = true
	}
	if err != nil {
		return nil, nil, &EncapError{Err: err}
	}
	if owned {
		defer zeroize(kpE.Private.raw)
	}

	enc = kpE.Public.Bytes()
	dh, err := k.dhComposite(kpE.Private, skS, pkR)
	if err != nil {
		return nil, nil, &EncapError{Err: err}
	}
	defer zeroize(dh)

	var pkSm []byte
	if skS != nil {
		pkSm = skS.pub.raw
	}
	sharedSecret, err = k.extractAndExpand(dh, kemContext(enc, pkR.raw, pkSm))
	if err != nil {
		return nil, nil, &EncapError{Err: err}
	}
	return enc, sharedSecret, nil
}

// decap recovers the shared secret from an encapsulated key. A non-nil pkS
// selects the authenticated variant and verifies the sender's static key
// contribution.
func (k dhKEM) decap(enc []byte, skR *PrivateKey, pkS *PublicKey) ([]byte, error) {
	pkE, err := k.group.parsePublicKey(enc)
	if err != nil {
		return nil, &DecapError{Err: err}
	}

	dh, err := k.group.dh(skR, pkE)
	if err != nil {
		return nil, &DecapError{Err: err}
	}
	if pkS != nil {
		dhS, err := k.group.dh(skR, pkS)
		if err != nil {
			zeroize(dh)
			return nil, &DecapError{Err: err}
		}
		both := make([]byte, 0, len(dh)+len(dhS))
		both = append(both, dh...)
		both = append(both, dhS...)
		zeroize(dh)
		zeroize(dhS)
		dh = both
	}
	defer zeroize(dh)

	var pkSm []byte
	if pkS != nil {
		pkSm = pkS.raw
	}
	sharedSecret, err := k.extractAndExpand(dh, kemContext(enc, skR.pub.raw, pkSm))
	if err != nil {
		return nil, &DecapError{Err: err}
	}
	return sharedSecret, nil
}

// kemContext assembles enc || pkRm and, in authenticated modes, appends
// the sender's serialized public key.
func kemContext(enc, pkRm, pkSm []byte) []byte {
	ctx := make([]byte, 0, len(enc)+len(pkRm)+len(pkSm))
	ctx = append(ctx, enc...)
	ctx = append(ctx, pkRm...)
	ctx = append(ctx, pkSm...)
	return ctx
}
