//go:build integration

// Package integration exercises the library against an independent HPKE
// implementation (CIRCL) and against external RFC 9180 JSON test vector
// files.
//
// Run with:
//
//	go test -tags=integration ./integration/
//
// The interop tests are self-contained. To also run the external vector
// suite, set HPKE_TEST_VECTORS (directly or in a .env file at the project
// root) to the path of an RFC 9180 JSON vector file such as
// test-vectors.json from the CFRG reference repository.
package integration

import (
	"encoding/hex"
	"os"
	"testing"

	"github.com/joho/godotenv"
	hpke "github.com/vaultsandbox/hpke-go"
)

var vectorsPath string

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	vectorsPath = os.Getenv("HPKE_TEST_VECTORS")
	if vectorsPath == "" {
		os.Stderr.WriteString("HPKE_TEST_VECTORS not set; external vector tests will be skipped\n")
	}

	os.Exit(m.Run())
}

func newSuite(t *testing.T, kem hpke.KemID, kdf hpke.KdfID, aead hpke.AeadID) *hpke.CipherSuite {
	t.Helper()

	suite, err := hpke.NewCipherSuite(kem, kdf, aead)
	if err != nil {
		t.Fatalf("NewCipherSuite() error = %v", err)
	}

	return suite
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q) error = %v", s, err)
	}

	return b
}
