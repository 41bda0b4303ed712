package hpke

import "fmt"

// PSK is a pre-shared key with its identifier. Both parties must hold the
// same pair for the PSK and AuthPSK modes to agree on a key schedule.
//
// The key must carry at least 32 bytes of entropy; the identifier must be
// non-empty. Neither is transmitted by this package.
type PSK struct {
	Key []byte
	ID  []byte
}

// contextConfig holds configuration for context establishment.
type contextConfig struct {
	info             []byte
	psk              *PSK
	senderKey        *PrivateKey
	senderPublic     *PublicKey
	ephemeralSeed    []byte
	ephemeralKeyPair *KeyPair
}

// ContextOption configures context establishment.
type ContextOption func(*contextConfig)

func newContextConfig(opts []ContextOption) *contextConfig {
	cfg := &contextConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithInfo sets the application-supplied info string. Both parties must
// pass the same value or decryption fails.
func WithInfo(info []byte) ContextOption {
	return func(c *contextConfig) {
		c.info = info
	}
}

// WithPSK authenticates the context with a pre-shared key, selecting the
// PSK mode (or AuthPSK when combined with a sender key).
func WithPSK(psk *PSK) ContextOption {
	return func(c *contextConfig) {
		c.psk = psk
	}
}

// WithSenderKey authenticates the sender to the recipient with the
// sender's static private key, selecting the Auth mode (or AuthPSK when
// combined with a PSK). Sender-side only.
func WithSenderKey(key *PrivateKey) ContextOption {
	return func(c *contextConfig) {
		c.senderKey = key
	}
}

// WithSenderPublicKey sets the sender's static public key the recipient
// verifies against in the Auth and AuthPSK modes. Recipient-side only.
func WithSenderPublicKey(key *PublicKey) ContextOption {
	return func(c *contextConfig) {
		c.senderPublic = key
	}
}

// WithEphemeralSeed derives the ephemeral key pair deterministically from
// seed instead of drawing it from the random source. The seed must be at
// least the private key size of the suite's KEM. Deterministic encryption
// forfeits the scheme's freshness guarantees; reserve this for tests and
// known-answer vectors.
func WithEphemeralSeed(seed []byte) ContextOption {
	return func(c *contextConfig) {
		c.ephemeralSeed = seed
	}
}

// withEphemeralKeyPair supplies the ephemeral key pair directly,
// bypassing generation entirely. Test hook for vectors that fix the
// ephemeral private key rather than its seed.
func withEphemeralKeyPair(kp *KeyPair) ContextOption {
	return func(c *contextConfig) {
		c.ephemeralKeyPair = kp
	}
}

// mode derives the key schedule mode from the configured options.
func (c *contextConfig) mode() byte {
	return modeFrom(c.psk != nil, c.senderKey != nil || c.senderPublic != nil)
}

// validateCommon checks the options both sides share.
func (c *contextConfig) validateCommon() error {
	if len(c.info) > maxInfoLen {
		return &ParamError{Param: "info", Reason: fmt.Sprintf("length %d exceeds %d bytes", len(c.info), maxInfoLen)}
	}
	if c.psk != nil {
		if len(c.psk.Key) < minPSKLen {
			return &ParamError{Param: "psk.Key", Reason: fmt.Sprintf("length %d below %d-byte minimum", len(c.psk.Key), minPSKLen)}
		}
		if len(c.psk.Key) > maxPSKLen {
			return &ParamError{Param: "psk.Key", Reason: fmt.Sprintf("length %d exceeds %d bytes", len(c.psk.Key), maxPSKLen)}
		}
		if len(c.psk.ID) == 0 {
			return &ParamError{Param: "psk.ID", Reason: "must not be empty"}
		}
		if len(c.psk.ID) > maxPSKIDLen {
			return &ParamError{Param: "psk.ID", Reason: fmt.Sprintf("length %d exceeds %d bytes", len(c.psk.ID), maxPSKIDLen)}
		}
	}
	return nil
}

func (c *contextConfig) validateSender(kem KemID) error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if c.senderPublic != nil {
		return &ParamError{Param: "senderPublic", Reason: "recipient-side option passed to sender"}
	}
	if c.senderKey != nil && c.senderKey.KemID() != kem {
		return &ParamError{Param: "senderKey", Reason: fmt.Sprintf("key for %v used with %v", c.senderKey.KemID(), kem)}
	}
	if c.ephemeralSeed != nil && c.ephemeralKeyPair != nil {
		return &ParamError{Param: "ephemeralSeed", Reason: "conflicts with explicit ephemeral key pair"}
	}
	if c.ephemeralSeed != nil {
		if len(c.ephemeralSeed) < kem.PrivateKeySize() {
			return &ParamError{Param: "ephemeralSeed", Reason: fmt.Sprintf("length %d below private key size %d", len(c.ephemeralSeed), kem.PrivateKeySize())}
		}
		if len(c.ephemeralSeed) > maxIKMLen {
			return &ParamError{Param: "ephemeralSeed", Reason: fmt.Sprintf("length %d exceeds %d bytes", len(c.ephemeralSeed), maxIKMLen)}
		}
	}
	if c.ephemeralKeyPair != nil && c.ephemeralKeyPair.Private.KemID() != kem {
		return &ParamError{Param: "ephemeralKeyPair", Reason: fmt.Sprintf("key for %v used with %v", c.ephemeralKeyPair.Private.KemID(), kem)}
	}
	return nil
}

func (c *contextConfig) validateRecipient(kem KemID) error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	if c.senderKey != nil {
		return &ParamError{Param: "senderKey", Reason: "sender-side option passed to recipient"}
	}
	if c.ephemeralSeed != nil {
		return &ParamError{Param: "ephemeralSeed", Reason: "sender-side option passed to recipient"}
	}
	if c.ephemeralKeyPair != nil {
		return &ParamError{Param: "ephemeralKeyPair", Reason: "sender-side option passed to recipient"}
	}
	if c.senderPublic != nil && c.senderPublic.KemID() != kem {
		return &ParamError{Param: "senderPublic", Reason: fmt.Sprintf("key for %v used with %v", c.senderPublic.KemID(), kem)}
	}
	return nil
}
