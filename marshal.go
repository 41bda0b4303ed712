package hpke

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// Context wire form: the three registry identifiers, then exporter secret,
// key, base nonce and sequence counter, each behind a one-byte length
// prefix. Export-only contexts carry empty key and nonce fields.

func (c *encdecContext) marshal() ([]byte, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	var b cryptobyte.Builder
	b.AddUint16(uint16(c.suite.kemID))
	b.AddUint16(uint16(c.suite.kdfID))
	b.AddUint16(uint16(c.suite.aeadID))
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(c.exporterSecret)
	})
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(c.key)
	})
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(c.baseNonce)
	})
	seq := c.seq.bytes()
	b.AddUint8LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(seq[:])
	})
	return b.Bytes()
}

func unmarshalContext(data []byte) (*encdecContext, error) {
	var (
		kem, kdf, aead                      uint16
		exporterSecret, key, baseNonce, seq []byte
		t                                   cryptobyte.String
	)
	s := cryptobyte.String(data)
	if !s.ReadUint16(&kem) ||
		!s.ReadUint16(&kdf) ||
		!s.ReadUint16(&aead) ||
		!s.ReadUint8LengthPrefixed(&t) ||
		!t.ReadBytes(&exporterSecret, len(t)) ||
		!s.ReadUint8LengthPrefixed(&t) ||
		!t.ReadBytes(&key, len(t)) ||
		!s.ReadUint8LengthPrefixed(&t) ||
		!t.ReadBytes(&baseNonce, len(t)) ||
		!s.ReadUint8LengthPrefixed(&t) ||
		!t.ReadBytes(&seq, len(t)) ||
		!s.Empty() {
		return nil, fmt.Errorf("%w: malformed context encoding", ErrDeserialize)
	}

	suite, err := NewCipherSuite(KemID(kem), KdfID(kdf), AeadID(aead))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	if len(exporterSecret) != suite.kdfID.ExtractSize() {
		return nil, fmt.Errorf("%w: exporter secret size %d, want %d", ErrDeserialize, len(exporterSecret), suite.kdfID.ExtractSize())
	}
	if len(seq) != 16 {
		return nil, fmt.Errorf("%w: sequence size %d, want 16", ErrDeserialize, len(seq))
	}

	ctx := &encdecContext{
		suite:          suite,
		exporterSecret: exporterSecret,
		seq:            sequenceFromBytes(seq),
	}
	if suite.aeadID == ExportOnly {
		if len(key) != 0 || len(baseNonce) != 0 {
			return nil, fmt.Errorf("%w: export-only context carries AEAD state", ErrDeserialize)
		}
		return ctx, nil
	}

	if len(key) != suite.aeadID.KeySize() {
		return nil, fmt.Errorf("%w: key size %d, want %d", ErrDeserialize, len(key), suite.aeadID.KeySize())
	}
	if len(baseNonce) != suite.aeadID.NonceSize() {
		return nil, fmt.Errorf("%w: base nonce size %d, want %d", ErrDeserialize, len(baseNonce), suite.aeadID.NonceSize())
	}
	aeadCipher, err := suite.aeadID.newCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	ctx.key = key
	ctx.baseNonce = baseNonce
	ctx.cipher = aeadCipher
	ctx.limit = maxSequence(len(baseNonce))
	return ctx, nil
}

// MarshalBinary serializes the context, sequence counter included, so a
// message stream can continue after a restart. The output contains live
// key material; protect it like a private key.
func (sc *SenderContext) MarshalBinary() ([]byte, error) {
	return sc.ctx.marshal()
}

// MarshalBinary serializes the context, sequence counter included, so a
// message stream can continue after a restart. The output contains live
// key material; protect it like a private key.
func (rc *RecipientContext) MarshalBinary() ([]byte, error) {
	return rc.ctx.marshal()
}

// UnmarshalSenderContext restores a context serialized with
// [SenderContext.MarshalBinary]. The encoding does not record which side
// produced it; restoring a recipient's state as a sender reuses nonces,
// so keep the two directions apart.
func UnmarshalSenderContext(data []byte) (*SenderContext, error) {
	ctx, err := unmarshalContext(data)
	if err != nil {
		return nil, err
	}
	return &SenderContext{ctx: ctx}, nil
}

// UnmarshalRecipientContext restores a context serialized with
// [RecipientContext.MarshalBinary].
func UnmarshalRecipientContext(data []byte) (*RecipientContext, error) {
	ctx, err := unmarshalContext(data)
	if err != nil {
		return nil, err
	}
	return &RecipientContext{ctx: ctx}, nil
}
