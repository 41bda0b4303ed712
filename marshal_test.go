package hpke

import (
	"bytes"
	"errors"
	"testing"
)

func TestMarshal_SenderRoundTrip(t *testing.T) {
	sctx, rctx := newTestContexts(t)

	ct0, err := sctx.Seal([]byte("zero"), nil)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if _, err := rctx.Open(ct0, nil); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	data, err := sctx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	restored, err := UnmarshalSenderContext(data)
	if err != nil {
		t.Fatalf("UnmarshalSenderContext() error = %v", err)
	}
	defer restored.Close()

	// The restored context carries the same key and counter, so both
	// contexts seal the next message identically.
	ct1, err := sctx.Seal([]byte("one"), nil)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	ct1r, err := restored.Seal([]byte("one"), nil)
	if err != nil {
		t.Fatalf("restored Seal() error = %v", err)
	}
	if !bytes.Equal(ct1, ct1r) {
		t.Error("restored context sealed a different ciphertext")
	}

	if _, err := rctx.Open(ct1, nil); err != nil {
		t.Fatalf("Open(ct1) error = %v", err)
	}
}

func TestMarshal_RecipientRoundTrip(t *testing.T) {
	sctx, rctx := newTestContexts(t)

	ct0, err := sctx.Seal([]byte("zero"), nil)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	if _, err := rctx.Open(ct0, nil); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	data, err := rctx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	restored, err := UnmarshalRecipientContext(data)
	if err != nil {
		t.Fatalf("UnmarshalRecipientContext() error = %v", err)
	}
	defer restored.Close()

	ct1, err := sctx.Seal([]byte("one"), nil)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	pt, err := restored.Open(ct1, nil)
	if err != nil {
		t.Fatalf("restored Open() error = %v", err)
	}
	if !bytes.Equal(pt, []byte("one")) {
		t.Errorf("restored Open() = %q, want %q", pt, "one")
	}
}

func TestMarshal_PreservesExporter(t *testing.T) {
	sctx, _ := newTestContexts(t)

	want, err := sctx.Export([]byte("label"), 32)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	data, err := sctx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	restored, err := UnmarshalSenderContext(data)
	if err != nil {
		t.Fatalf("UnmarshalSenderContext() error = %v", err)
	}
	defer restored.Close()

	got, err := restored.Export([]byte("label"), 32)
	if err != nil {
		t.Fatalf("restored Export() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("restored context exported a different secret")
	}
}

func TestMarshal_ExportOnly(t *testing.T) {
	suite, err := NewCipherSuite(DhkemX25519HkdfSha256, HkdfSha256, ExportOnly)
	if err != nil {
		t.Fatalf("NewCipherSuite() error = %v", err)
	}
	kp, err := suite.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}
	_, sctx, err := suite.NewSenderContext(kp.Public)
	if err != nil {
		t.Fatalf("NewSenderContext() error = %v", err)
	}
	defer sctx.Close()

	want, err := sctx.Export([]byte("label"), 16)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	data, err := sctx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	restored, err := UnmarshalSenderContext(data)
	if err != nil {
		t.Fatalf("UnmarshalSenderContext() error = %v", err)
	}
	defer restored.Close()

	got, err := restored.Export([]byte("label"), 16)
	if err != nil {
		t.Fatalf("restored Export() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("restored export-only context exported a different secret")
	}

	if _, err := restored.Seal([]byte("x"), nil); !errors.Is(err, ErrNotSupported) {
		t.Errorf("expected ErrNotSupported, got %v", err)
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	sctx, _ := newTestContexts(t)
	data, err := sctx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"empty", func(b []byte) []byte { return nil }},
		{"truncated header", func(b []byte) []byte { return b[:3] }},
		{"truncated body", func(b []byte) []byte { return b[:len(b)-5] }},
		{"trailing garbage", func(b []byte) []byte { return append(b, 0x00) }},
		{"unknown kem", func(b []byte) []byte { b[0], b[1] = 0xAB, 0xCD; return b }},
		{"unknown aead", func(b []byte) []byte { b[4], b[5] = 0x00, 0x09; return b }},
		{"export-only with aead state", func(b []byte) []byte { b[4], b[5] = 0xFF, 0xFF; return b }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mutated := tt.mutate(append([]byte(nil), data...))
			if _, err := UnmarshalSenderContext(mutated); !errors.Is(err, ErrDeserialize) {
				t.Errorf("expected ErrDeserialize, got %v", err)
			}
			if _, err := UnmarshalRecipientContext(mutated); !errors.Is(err, ErrDeserialize) {
				t.Errorf("expected ErrDeserialize, got %v", err)
			}
		})
	}
}

func TestUnmarshal_WrongSecretSize(t *testing.T) {
	sctx, _ := newTestContexts(t)
	data, err := sctx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	// Swap the KDF to SHA-512: the recorded exporter secret is now half
	// the expected size.
	data[2], data[3] = 0x00, 0x03
	if _, err := UnmarshalSenderContext(data); !errors.Is(err, ErrDeserialize) {
		t.Errorf("expected ErrDeserialize, got %v", err)
	}
}
