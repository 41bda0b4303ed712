package hpke

import (
	"crypto/ecdh"
	"fmt"
)

// nistGroup adapts crypto/ecdh's NIST curves to the dhGroup interface.
type nistGroup struct {
	id      KemID
	curve   ecdh.Curve
	bitmask byte // top-byte mask applied to derive-key-pair candidates
}

var (
	groupP256 = nistGroup{id: DhkemP256HkdfSha256, curve: ecdh.P256(), bitmask: 0xFF}
	groupP384 = nistGroup{id: DhkemP384HkdfSha384, curve: ecdh.P384(), bitmask: 0xFF}
	groupP521 = nistGroup{id: DhkemP521HkdfSha512, curve: ecdh.P521(), bitmask: 0x01}
)

func (g nistGroup) generateKeyPair() (*KeyPair, error) {
	sk, err := g.curve.GenerateKey(randReader)
	if err != nil {
		return nil, err
	}
	return g.keyPair(sk), nil
}

// deriveKeyPair rejection-samples a scalar from the candidate stream
// (RFC 9180 §7.1.3). Candidates outside [1, order-1] are rejected by the
// curve's scalar parser; the loop is bounded.
func (g nistGroup) deriveKeyPair(ikm []byte) (*KeyPair, error) {
	kdf := g.id.kdfID()
	sid := kemSuiteID(g.id)
	dkpPrk := kdf.labeledExtract(sid, nil, "dkp_prk", ikm)
	defer zeroize(dkpPrk)

	for ctr := 0; ctr < deriveKeyPairAttempts; ctr++ {
		candidate, err := kdf.labeledExpand(sid, dkpPrk, "candidate", []byte{byte(ctr)}, g.id.PrivateKeySize())
		if err != nil {
			return nil, &DeriveKeyPairError{Attempts: ctr, Err: err}
		}
		candidate[0] &= g.bitmask
		sk, err := g.curve.NewPrivateKey(candidate)
		zeroize(candidate)
		if err == nil {
			return g.keyPair(sk), nil
		}
	}
	return nil, &DeriveKeyPairError{Attempts: deriveKeyPairAttempts}
}

func (g nistGroup) keyPair(sk *ecdh.PrivateKey) *KeyPair {
	ecPub := sk.PublicKey()
	pub := &PublicKey{kem: g.id, raw: ecPub.Bytes(), ec: ecPub}
	priv := &PrivateKey{kem: g.id, raw: sk.Bytes(), ec: sk, pub: pub}
	return &KeyPair{Private: priv, Public: pub}
}

func (g nistGroup) dh(sk *PrivateKey, pk *PublicKey) ([]byte, error) {
	if sk.ec == nil || pk.ec == nil {
		return nil, fmt.Errorf("key not parsed for curve %s", g.id)
	}
	return sk.ec.ECDH(pk.ec)
}

func (g nistGroup) parsePublicKey(data []byte) (*PublicKey, error) {
	if len(data) != g.id.PublicKeySize() {
		return nil, fmt.Errorf("%w: public key size %d, want %d", ErrDeserialize, len(data), g.id.PublicKeySize())
	}
	pub, err := g.curve.NewPublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	return &PublicKey{kem: g.id, raw: append([]byte(nil), data...), ec: pub}, nil
}

func (g nistGroup) parsePrivateKey(data []byte) (*PrivateKey, error) {
	if len(data) != g.id.PrivateKeySize() {
		return nil, fmt.Errorf("%w: private key size %d, want %d", ErrDeserialize, len(data), g.id.PrivateKeySize())
	}
	sk, err := g.curve.NewPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	return g.keyPair(sk).Private, nil
}
