package hpke

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// uint128 is the sequence counter. It covers every registered nonce size.
type uint128 struct {
	hi, lo uint64
}

func (u uint128) addOne() uint128 {
	lo, carry := bits.Add64(u.lo, 1, 0)
	hi, _ := bits.Add64(u.hi, 0, carry)
	return uint128{hi: hi, lo: lo}
}

// cmp returns -1, 0 or 1.
func (u uint128) cmp(v uint128) int {
	switch {
	case u.hi != v.hi:
		if u.hi < v.hi {
			return -1
		}
		return 1
	case u.lo != v.lo:
		if u.lo < v.lo {
			return -1
		}
		return 1
	}
	return 0
}

// bytes returns the counter as a 16-byte big-endian string.
func (u uint128) bytes() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], u.hi)
	binary.BigEndian.PutUint64(b[8:], u.lo)
	return b
}

func sequenceFromBytes(b []byte) uint128 {
	return uint128{
		hi: binary.BigEndian.Uint64(b[:8]),
		lo: binary.BigEndian.Uint64(b[8:]),
	}
}

// maxSequence returns 2^(8*nn) - 1, the sequence bound for an nn-byte
// nonce.
func maxSequence(nn int) uint128 {
	var b [16]byte
	if nn > 16 {
		nn = 16
	}
	for i := 16 - nn; i < 16; i++ {
		b[i] = 0xFF
	}
	return sequenceFromBytes(b[:])
}

// encdecContext is the state shared by sending and receiving contexts: the
// derived key material and the sequence counter driving nonce
// construction.
//
// A context is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves; racing seal or open calls
// corrupt the counter and can repeat a nonce, which breaks the AEAD
// entirely.
type encdecContext struct {
	suite          *CipherSuite
	exporterSecret []byte
	key            []byte
	baseNonce      []byte
	seq            uint128
	limit          uint128
	cipher         cipher.AEAD // nil for export-only suites
	closed         bool
}

// nextNonce computes baseNonce XOR I2OSP(seq, Nn) without advancing the
// counter.
func (c *encdecContext) nextNonce() []byte {
	buf := c.seq.bytes()
	nonce := make([]byte, len(c.baseNonce))
	copy(nonce, buf[16-len(c.baseNonce):])
	for i := range nonce {
		nonce[i] ^= c.baseNonce[i]
	}
	return nonce
}

// checkLive gates seal and open: the context must be open, backed by a
// real AEAD, and below its sequence limit.
func (c *encdecContext) checkLive() error {
	if c.closed {
		return ErrContextClosed
	}
	if c.cipher == nil {
		return fmt.Errorf("%w: suite is export-only", ErrNotSupported)
	}
	if c.seq.cmp(c.limit) >= 0 {
		return ErrMessageLimitReached
	}
	return nil
}

// export derives application keying material from the exporter secret.
// Independent of the sequence counter; usable any number of times,
// including on export-only suites.
func (c *encdecContext) export(exporterContext []byte, length int) ([]byte, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	if length < 0 {
		return nil, &ParamError{Param: "length", Reason: "negative"}
	}
	if len(exporterContext) > maxExporterContextLen {
		return nil, &ParamError{Param: "exporterContext", Reason: fmt.Sprintf("length %d exceeds %d", len(exporterContext), maxExporterContextLen)}
	}
	okm, err := c.suite.kdfID.labeledExpand(c.suite.id, c.exporterSecret, "sec", exporterContext, length)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExport, err)
	}
	return okm, nil
}

// close zeroes all secret state. Every later operation fails with
// ErrContextClosed.
func (c *encdecContext) close() {
	zeroize(c.exporterSecret)
	zeroize(c.key)
	zeroize(c.baseNonce)
	c.cipher = nil
	c.closed = true
}

// SenderContext encrypts a sequence of messages under a single
// encapsulation. Create one with [CipherSuite.NewSenderContext].
//
// A SenderContext is not safe for concurrent use.
type SenderContext struct {
	ctx *encdecContext
}

// Seal encrypts plaintext with the next sequence nonce, authenticating
// aad alongside it. The counter advances by one on success; once the
// sequence space is exhausted every further call fails with
// ErrMessageLimitReached.
func (sc *SenderContext) Seal(plaintext, aad []byte) ([]byte, error) {
	c := sc.ctx
	if err := c.checkLive(); err != nil {
		return nil, err
	}
	ct := c.cipher.Seal(nil, c.nextNonce(), plaintext, aad)
	c.seq = c.seq.addOne()
	return ct, nil
}

// Export derives length bytes of application keying material bound to
// exporterContext. Available on export-only suites as well.
func (sc *SenderContext) Export(exporterContext []byte, length int) ([]byte, error) {
	return sc.ctx.export(exporterContext, length)
}

// Close zeroes the context's key material. The context is unusable
// afterwards.
func (sc *SenderContext) Close() error {
	sc.ctx.close()
	return nil
}

// RecipientContext decrypts the message sequence produced by the matching
// [SenderContext]. Create one with [CipherSuite.NewRecipientContext].
//
// A RecipientContext is not safe for concurrent use.
type RecipientContext struct {
	ctx *encdecContext
}

// Open authenticates and decrypts ciphertext. The counter advances only
// on success: a rejected ciphertext leaves the context state untouched,
// so the next call retries the same sequence number. The returned error
// never identifies why the ciphertext was rejected.
func (rc *RecipientContext) Open(ciphertext, aad []byte) ([]byte, error) {
	c := rc.ctx
	if err := c.checkLive(); err != nil {
		return nil, err
	}
	pt, err := c.cipher.Open(nil, c.nextNonce(), ciphertext, aad)
	if err != nil {
		return nil, ErrOpen
	}
	c.seq = c.seq.addOne()
	return pt, nil
}

// Export derives length bytes of application keying material bound to
// exporterContext. Available on export-only suites as well.
func (rc *RecipientContext) Export(exporterContext []byte, length int) ([]byte, error) {
	return rc.ctx.export(exporterContext, length)
}

// Close zeroes the context's key material. The context is unusable
// afterwards.
func (rc *RecipientContext) Close() error {
	rc.ctx.close()
	return nil
}
