// Package hpke implements Hybrid Public Key Encryption (RFC 9180),
// a public-key encryption scheme built from a key encapsulation
// mechanism (KEM), a key derivation function (KDF), and an AEAD cipher.
//
// # Cipher Suites
//
// A [CipherSuite] combines one algorithm from each registry:
//
//   - KEMs: DHKEM over P-256, P-384, P-521, X25519, or X448, each paired
//     with the HKDF hash of matching strength.
//
//   - KDFs: HKDF-SHA256, HKDF-SHA384, or HKDF-SHA512 for the key
//     schedule and the exporter interface.
//
//   - AEADs: AES-128-GCM, AES-256-GCM, ChaCha20-Poly1305, or the
//     export-only pseudo-AEAD for suites that only derive keys.
//
// Any combination of valid identifiers is accepted; [NewCipherSuite]
// rejects identifiers this package does not implement.
//
// # Modes
//
// The base mode encrypts to a recipient public key with no sender
// authentication. Options extend it:
//
//   - [WithPSK] mixes a pre-shared key into the key schedule, proving
//     both parties hold it.
//
//   - [WithSenderKey] (sender) and [WithSenderPublicKey] (recipient)
//     authenticate the sender through its static KEM key.
//
//   - Both together select the AuthPSK mode.
//
// # Contexts
//
// [CipherSuite.NewSenderContext] encapsulates to the recipient and
// returns the encapsulated key together with a [SenderContext];
// [CipherSuite.NewRecipientContext] rebuilds the matching
// [RecipientContext] from that encapsulated key. A context encrypts a
// sequence of messages under one shared secret: each [SenderContext.Seal]
// and [RecipientContext.Open] advances an internal counter, so messages
// must be opened in the order they were sealed. Both context types also
// implement the secret exporter via Export, and can be serialized across
// restarts with MarshalBinary.
//
// For one message, [CipherSuite.Seal] and [CipherSuite.Open] wrap
// context setup and the single AEAD call.
//
// # Security Notes
//
// Contexts are not safe for concurrent use. Sequence counters never
// repeat a nonce: once the counter is exhausted, Seal and Open fail with
// [ErrMessageLimitReached] rather than wrap.
//
// Serialized contexts and derived exporter secrets contain live key
// material. Treat them like private keys. Close zeroes a context's key
// material; afterwards every operation fails with [ErrContextClosed].
//
// Basic usage:
//
//	suite, err := hpke.NewCipherSuite(hpke.DhkemX25519HkdfSha256, hpke.HkdfSha256, hpke.Chacha20Poly1305)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	kp, err := suite.GenerateKeyPair()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	enc, ct, err := suite.Seal(kp.Public, []byte("hello"), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pt, err := suite.Open(enc, kp.Private, ct, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
package hpke
