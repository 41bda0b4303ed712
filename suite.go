package hpke

import (
	"encoding/binary"
	"fmt"
)

// CipherSuite binds one KEM, one KDF and one AEAD and computes the suite
// identifier that domain-separates all of its derivations. A suite holds
// no per-session state: construct it once and share it freely across
// goroutines and contexts.
type CipherSuite struct {
	kemID  KemID
	kdfID  KdfID
	aeadID AeadID
	kem    dhKEM
	id     []byte // "HPKE" || kemID || kdfID || aeadID
}

// NewCipherSuite binds the three algorithm choices. Unknown registry
// identifiers fail with ErrInvalidParam.
func NewCipherSuite(kem KemID, kdf KdfID, aead AeadID) (*CipherSuite, error) {
	if !kem.IsValid() {
		return nil, &ParamError{Param: "kem", Reason: fmt.Sprintf("unknown KEM identifier 0x%04x", uint16(kem))}
	}
	if !kdf.IsValid() {
		return nil, &ParamError{Param: "kdf", Reason: fmt.Sprintf("unknown KDF identifier 0x%04x", uint16(kdf))}
	}
	if !aead.IsValid() {
		return nil, &ParamError{Param: "aead", Reason: fmt.Sprintf("unknown AEAD identifier 0x%04x", uint16(aead))}
	}
	return &CipherSuite{
		kemID:  kem,
		kdfID:  kdf,
		aeadID: aead,
		kem:    newKEM(kem),
		id:     suiteID(kem, kdf, aead),
	}, nil
}

// KemID returns the suite's KEM identifier.
func (s *CipherSuite) KemID() KemID { return s.kemID }

// KdfID returns the suite's KDF identifier.
func (s *CipherSuite) KdfID() KdfID { return s.kdfID }

// AeadID returns the suite's AEAD identifier.
func (s *CipherSuite) AeadID() AeadID { return s.aeadID }

// String implements fmt.Stringer.
func (s *CipherSuite) String() string {
	return fmt.Sprintf("%s, %s, %s", s.kemID, s.kdfID, s.aeadID)
}

// GenerateKeyPair draws a fresh key pair for the suite's KEM.
func (s *CipherSuite) GenerateKeyPair() (*KeyPair, error) {
	return s.kem.group.generateKeyPair()
}

// DeriveKeyPair deterministically derives a key pair for the suite's KEM
// from input keying material. The same ikm always yields the same pair.
// ikm must be at least the KEM private key size and at most 8192 bytes.
func (s *CipherSuite) DeriveKeyPair(ikm []byte) (*KeyPair, error) {
	if len(ikm) < s.kemID.PrivateKeySize() {
		return nil, &ParamError{Param: "ikm", Reason: fmt.Sprintf("length %d below KEM private key size %d", len(ikm), s.kemID.PrivateKeySize())}
	}
	if len(ikm) > maxIKMLen {
		return nil, &ParamError{Param: "ikm", Reason: fmt.Sprintf("length %d exceeds %d", len(ikm), maxIKMLen)}
	}
	return s.kem.group.deriveKeyPair(ikm)
}

// NewSenderContext encapsulates to the recipient public key and derives a
// sending context. The returned encapsulated key must be transmitted to
// the recipient so it can derive the matching context.
//
// Mode selection follows the supplied options: WithPSK alone yields Psk
// mode, WithSenderKey alone Auth, both AuthPsk, neither Base.
func (s *CipherSuite) NewSenderContext(recipientPublic *PublicKey, opts ...ContextOption) ([]byte, *SenderContext, error) {
	cfg := newContextConfig(opts)
	if err := cfg.validateSender(s.kemID); err != nil {
		return nil, nil, err
	}
	if recipientPublic == nil {
		return nil, nil, &ParamError{Param: "recipientPublic", Reason: "required"}
	}
	if recipientPublic.kem != s.kemID {
		return nil, nil, &ParamError{Param: "recipientPublic", Reason: fmt.Sprintf("key belongs to %s, suite uses %s", recipientPublic.kem, s.kemID)}
	}

	enc, sharedSecret, err := s.kem.encap(recipientPublic, cfg.senderKey, cfg.ephemeralKeyPair, cfg.ephemeralSeed)
	if err != nil {
		return nil, nil, err
	}
	defer zeroize(sharedSecret)

	ctx, err := s.keySchedule(cfg.mode(), sharedSecret, cfg.info, cfg.psk)
	if err != nil {
		return nil, nil, err
	}
	return enc, &SenderContext{ctx: ctx}, nil
}

// NewRecipientContext decapsulates the encapsulated key with the recipient
// private key and derives the receiving context. The options must mirror
// the sender's: same info, same PSK, and the sender's public key when the
// sender authenticated itself.
func (s *CipherSuite) NewRecipientContext(enc []byte, recipientKey *PrivateKey, opts ...ContextOption) (*RecipientContext, error) {
	cfg := newContextConfig(opts)
	if err := cfg.validateRecipient(s.kemID); err != nil {
		return nil, err
	}
	if recipientKey == nil {
		return nil, &ParamError{Param: "recipientKey", Reason: "required"}
	}
	if recipientKey.kem != s.kemID {
		return nil, &ParamError{Param: "recipientKey", Reason: fmt.Sprintf("key belongs to %s, suite uses %s", recipientKey.kem, s.kemID)}
	}

	sharedSecret, err := s.kem.decap(enc, recipientKey, cfg.senderPublic)
	if err != nil {
		return nil, err
	}
	defer zeroize(sharedSecret)

	ctx, err := s.keySchedule(cfg.mode(), sharedSecret, cfg.info, cfg.psk)
	if err != nil {
		return nil, err
	}
	return &RecipientContext{ctx: ctx}, nil
}

// Seal encrypts a single message to the recipient public key, returning
// the encapsulated key and the ciphertext. Every call performs a fresh
// encapsulation.
func (s *CipherSuite) Seal(recipientPublic *PublicKey, plaintext, aad []byte, opts ...ContextOption) (enc, ct []byte, err error) {
	enc, sctx, err := s.NewSenderContext(recipientPublic, opts...)
	if err != nil {
		return nil, nil, err
	}
	defer sctx.Close()

	ct, err = sctx.Seal(plaintext, aad)
	if err != nil {
		return nil, nil, err
	}
	return enc, ct, nil
}

// Open decrypts a single message produced by Seal.
func (s *CipherSuite) Open(enc []byte, recipientKey *PrivateKey, ciphertext, aad []byte, opts ...ContextOption) ([]byte, error) {
	rctx, err := s.NewRecipientContext(enc, recipientKey, opts...)
	if err != nil {
		return nil, err
	}
	defer rctx.Close()

	return rctx.Open(ciphertext, aad)
}

// suiteID returns "HPKE" || kemID || kdfID || aeadID, the domain-separation
// string for all key-schedule derivations of one suite.
func suiteID(kem KemID, kdf KdfID, aead AeadID) []byte {
	id := make([]byte, 0, 10)
	id = append(id, "HPKE"...)
	id = binary.BigEndian.AppendUint16(id, uint16(kem))
	id = binary.BigEndian.AppendUint16(id, uint16(kdf))
	id = binary.BigEndian.AppendUint16(id, uint16(aead))
	return id
}

// kemSuiteID returns "KEM" || kemID, the domain separation the KEM uses
// before a full suite is bound.
func kemSuiteID(kem KemID) []byte {
	id := make([]byte, 0, 5)
	id = append(id, "KEM"...)
	return binary.BigEndian.AppendUint16(id, uint16(kem))
}
