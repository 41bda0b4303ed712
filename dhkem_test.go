package hpke

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveKeyPair_Deterministic(t *testing.T) {
	for _, kem := range allKemIDs {
		t.Run(kem.String(), func(t *testing.T) {
			suite := testSuite(t, kem)

			ikm := make([]byte, kem.PrivateKeySize())
			for i := range ikm {
				ikm[i] = byte(i)
			}

			kp1, err := suite.DeriveKeyPair(ikm)
			if err != nil {
				t.Fatalf("DeriveKeyPair() error = %v", err)
			}
			kp2, err := suite.DeriveKeyPair(ikm)
			if err != nil {
				t.Fatalf("DeriveKeyPair() error = %v", err)
			}

			if !kp1.Private.Equal(kp2.Private) {
				t.Error("same ikm derived different private keys")
			}
			if !kp1.Public.Equal(kp2.Public) {
				t.Error("same ikm derived different public keys")
			}

			ikm[0] ^= 0x01
			kp3, err := suite.DeriveKeyPair(ikm)
			if err != nil {
				t.Fatalf("DeriveKeyPair() error = %v", err)
			}
			if kp1.Private.Equal(kp3.Private) {
				t.Error("different ikm derived the same private key")
			}
		})
	}
}

func TestDeriveKeyPair_IkmLength(t *testing.T) {
	suite := testSuite(t, DhkemX25519HkdfSha256)

	if _, err := suite.DeriveKeyPair(make([]byte, 31)); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("short ikm: expected ErrInvalidParam, got %v", err)
	}
	if _, err := suite.DeriveKeyPair(make([]byte, maxIKMLen+1)); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("oversized ikm: expected ErrInvalidParam, got %v", err)
	}
	if _, err := suite.DeriveKeyPair(make([]byte, 32)); err != nil {
		t.Errorf("DeriveKeyPair(32 bytes) error = %v", err)
	}
}

// RFC 7748 section 6.1 Diffie-Hellman vectors.
func TestXGroup_X25519Vectors(t *testing.T) {
	aPriv := mustHex(t, "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a")
	aPub := mustHex(t, "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a")
	bPriv := mustHex(t, "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb")
	bPub := mustHex(t, "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f")
	shared := mustHex(t, "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742")

	alice, err := groupX25519.parsePrivateKey(aPriv)
	if err != nil {
		t.Fatalf("parsePrivateKey() error = %v", err)
	}
	if !bytes.Equal(alice.Public().Bytes(), aPub) {
		t.Errorf("alice public = %x, want %x", alice.Public().Bytes(), aPub)
	}

	bob, err := groupX25519.parsePrivateKey(bPriv)
	if err != nil {
		t.Fatalf("parsePrivateKey() error = %v", err)
	}
	if !bytes.Equal(bob.Public().Bytes(), bPub) {
		t.Errorf("bob public = %x, want %x", bob.Public().Bytes(), bPub)
	}

	ab, err := groupX25519.dh(alice, bob.Public())
	if err != nil {
		t.Fatalf("dh() error = %v", err)
	}
	ba, err := groupX25519.dh(bob, alice.Public())
	if err != nil {
		t.Fatalf("dh() error = %v", err)
	}
	if !bytes.Equal(ab, shared) {
		t.Errorf("dh(a, B) = %x, want %x", ab, shared)
	}
	if !bytes.Equal(ba, shared) {
		t.Errorf("dh(b, A) = %x, want %x", ba, shared)
	}
}

func TestEncapDecap_Base(t *testing.T) {
	for _, kem := range allKemIDs {
		t.Run(kem.String(), func(t *testing.T) {
			suite := testSuite(t, kem)
			kp, err := suite.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair() error = %v", err)
			}

			enc, ssS, err := suite.kem.encap(kp.Public, nil, nil, nil)
			if err != nil {
				t.Fatalf("encap() error = %v", err)
			}
			if len(enc) != kem.EncSize() {
				t.Errorf("enc size = %d, want %d", len(enc), kem.EncSize())
			}
			if len(ssS) != kem.SharedSecretSize() {
				t.Errorf("shared secret size = %d, want %d", len(ssS), kem.SharedSecretSize())
			}

			ssR, err := suite.kem.decap(enc, kp.Private, nil)
			if err != nil {
				t.Fatalf("decap() error = %v", err)
			}
			if !bytes.Equal(ssS, ssR) {
				t.Error("sender and recipient derived different shared secrets")
			}
		})
	}
}

func TestEncapDecap_Auth(t *testing.T) {
	for _, kem := range allKemIDs {
		t.Run(kem.String(), func(t *testing.T) {
			suite := testSuite(t, kem)
			recipient, err := suite.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair() error = %v", err)
			}
			sender, err := suite.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair() error = %v", err)
			}

			enc, ssS, err := suite.kem.encap(recipient.Public, sender.Private, nil, nil)
			if err != nil {
				t.Fatalf("encap() error = %v", err)
			}

			ssR, err := suite.kem.decap(enc, recipient.Private, sender.Public)
			if err != nil {
				t.Fatalf("decap() error = %v", err)
			}
			if !bytes.Equal(ssS, ssR) {
				t.Error("sender and recipient derived different shared secrets")
			}

			// Without the sender key the derivation must diverge.
			ssBase, err := suite.kem.decap(enc, recipient.Private, nil)
			if err == nil && bytes.Equal(ssBase, ssS) {
				t.Error("decap without sender key matched the authenticated secret")
			}
		})
	}
}

func TestEncap_SeedDeterministic(t *testing.T) {
	suite := testSuite(t, DhkemX25519HkdfSha256)
	kp, err := suite.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(0x40 + i)
	}

	enc1, ss1, err := suite.kem.encap(kp.Public, nil, nil, seed)
	if err != nil {
		t.Fatalf("encap() error = %v", err)
	}
	enc2, ss2, err := suite.kem.encap(kp.Public, nil, nil, seed)
	if err != nil {
		t.Fatalf("encap() error = %v", err)
	}

	if !bytes.Equal(enc1, enc2) {
		t.Error("same seed produced different encapsulated keys")
	}
	if !bytes.Equal(ss1, ss2) {
		t.Error("same seed produced different shared secrets")
	}

	enc3, _, err := suite.kem.encap(kp.Public, nil, nil, nil)
	if err != nil {
		t.Fatalf("encap() error = %v", err)
	}
	if bytes.Equal(enc1, enc3) {
		t.Error("random encapsulation repeated the seeded one")
	}
}

func TestEncap_LowOrderPoint(t *testing.T) {
	suite := testSuite(t, DhkemX25519HkdfSha256)

	// The all-zero u-coordinate is a small-order point; the DH output is
	// all zeros and must be rejected.
	lowOrder, err := suite.ImportPublicKey(KeyFormatRaw, make([]byte, 32))
	if err != nil {
		t.Fatalf("ImportPublicKey() error = %v", err)
	}

	_, _, err = suite.kem.encap(lowOrder, nil, nil, nil)
	if !errors.Is(err, ErrEncap) {
		t.Errorf("expected ErrEncap, got %v", err)
	}
}

func TestDecap_MalformedEnc(t *testing.T) {
	suite := testSuite(t, DhkemP256HkdfSha256)
	kp, err := suite.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	tests := []struct {
		name string
		enc  []byte
	}{
		{"empty", nil},
		{"truncated", make([]byte, 10)},
		{"wrong length", make([]byte, 64)},
		{"not on curve", append([]byte{0x04}, make([]byte, 64)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := suite.kem.decap(tt.enc, kp.Private, nil); !errors.Is(err, ErrDecap) {
				t.Errorf("expected ErrDecap, got %v", err)
			}
		})
	}
}

func TestKemID_Sizes(t *testing.T) {
	tests := []struct {
		id                KemID
		secret, priv, pub int
	}{
		{DhkemP256HkdfSha256, 32, 32, 65},
		{DhkemP384HkdfSha384, 48, 48, 97},
		{DhkemP521HkdfSha512, 64, 66, 133},
		{DhkemX25519HkdfSha256, 32, 32, 32},
		{DhkemX448HkdfSha512, 64, 56, 56},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			if got := tt.id.SharedSecretSize(); got != tt.secret {
				t.Errorf("SharedSecretSize() = %d, want %d", got, tt.secret)
			}
			if got := tt.id.PrivateKeySize(); got != tt.priv {
				t.Errorf("PrivateKeySize() = %d, want %d", got, tt.priv)
			}
			if got := tt.id.PublicKeySize(); got != tt.pub {
				t.Errorf("PublicKeySize() = %d, want %d", got, tt.pub)
			}
			if got := tt.id.EncSize(); got != tt.pub {
				t.Errorf("EncSize() = %d, want %d", got, tt.pub)
			}
		})
	}
}
