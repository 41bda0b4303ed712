package hpke

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/dh/x25519"
	"github.com/cloudflare/circl/dh/x448"
)

// xGroup adapts circl's X25519 and X448 functions to the dhGroup
// interface.
type xGroup struct {
	id KemID
}

var (
	groupX25519 = xGroup{id: DhkemX25519HkdfSha256}
	groupX448   = xGroup{id: DhkemX448HkdfSha512}
)

func (g xGroup) generateKeyPair() (*KeyPair, error) {
	sk := make([]byte, g.id.PrivateKeySize())
	if _, err := io.ReadFull(randReader, sk); err != nil {
		return nil, err
	}
	return g.keyPairFromScalar(sk)
}

// deriveKeyPair derives the scalar in a single expand (RFC 9180 §7.1.3);
// the Montgomery curves accept any scalar, so no rejection sampling is
// needed.
func (g xGroup) deriveKeyPair(ikm []byte) (*KeyPair, error) {
	kdf := g.id.kdfID()
	sid := kemSuiteID(g.id)
	dkpPrk := kdf.labeledExtract(sid, nil, "dkp_prk", ikm)
	defer zeroize(dkpPrk)

	sk, err := kdf.labeledExpand(sid, dkpPrk, "sk", nil, g.id.PrivateKeySize())
	if err != nil {
		return nil, &DeriveKeyPairError{Err: err}
	}
	return g.keyPairFromScalar(sk)
}

// keyPairFromScalar takes ownership of sk.
func (g xGroup) keyPairFromScalar(sk []byte) (*KeyPair, error) {
	pub, err := g.derivePublicKey(sk)
	if err != nil {
		return nil, err
	}
	priv := &PrivateKey{kem: g.id, raw: sk, pub: pub}
	return &KeyPair{Private: priv, Public: pub}, nil
}

func (g xGroup) derivePublicKey(sk []byte) (*PublicKey, error) {
	switch g.id {
	case DhkemX25519HkdfSha256:
		var priv, pub x25519.Key
		copy(priv[:], sk)
		x25519.KeyGen(&pub, &priv)
		zeroize(priv[:])
		return &PublicKey{kem: g.id, raw: append([]byte(nil), pub[:]...)}, nil
	case DhkemX448HkdfSha512:
		var priv, pub x448.Key
		copy(priv[:], sk)
		x448.KeyGen(&pub, &priv)
		zeroize(priv[:])
		return &PublicKey{kem: g.id, raw: append([]byte(nil), pub[:]...)}, nil
	}
	return nil, fmt.Errorf("%w: KEM %s is not a Montgomery curve", ErrNotSupported, g.id)
}

// dh runs the X25519/X448 function. Outputs in the small-order subgroup
// are rejected.
func (g xGroup) dh(sk *PrivateKey, pk *PublicKey) ([]byte, error) {
	switch g.id {
	case DhkemX25519HkdfSha256:
		var priv, pub, shared x25519.Key
		copy(priv[:], sk.raw)
		copy(pub[:], pk.raw)
		ok := x25519.Shared(&shared, &priv, &pub)
		zeroize(priv[:])
		if !ok {
			return nil, fmt.Errorf("X25519 produced a low-order shared point")
		}
		return shared[:], nil
	case DhkemX448HkdfSha512:
		var priv, pub, shared x448.Key
		copy(priv[:], sk.raw)
		copy(pub[:], pk.raw)
		ok := x448.Shared(&shared, &priv, &pub)
		zeroize(priv[:])
		if !ok {
			return nil, fmt.Errorf("X448 produced a low-order shared point")
		}
		return shared[:], nil
	}
	return nil, fmt.Errorf("%w: KEM %s is not a Montgomery curve", ErrNotSupported, g.id)
}

func (g xGroup) parsePublicKey(data []byte) (*PublicKey, error) {
	if len(data) != g.id.PublicKeySize() {
		return nil, fmt.Errorf("%w: public key size %d, want %d", ErrDeserialize, len(data), g.id.PublicKeySize())
	}
	return &PublicKey{kem: g.id, raw: append([]byte(nil), data...)}, nil
}

func (g xGroup) parsePrivateKey(data []byte) (*PrivateKey, error) {
	if len(data) != g.id.PrivateKeySize() {
		return nil, fmt.Errorf("%w: private key size %d, want %d", ErrDeserialize, len(data), g.id.PrivateKeySize())
	}
	kp, err := g.keyPairFromScalar(append([]byte(nil), data...))
	if err != nil {
		return nil, err
	}
	return kp.Private, nil
}
