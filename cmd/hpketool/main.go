package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	hpke "github.com/vaultsandbox/hpke-go"
)

func main() {
	if len(os.Args) < 2 {
		fatal("usage: hpketool <keygen|seal|open|export> [args]")
	}

	switch os.Args[1] {
	case "keygen":
		if len(os.Args) < 3 {
			fatal("usage: hpketool keygen <kem-id> [ikm-base64url]")
		}
		keygen(os.Args[2], os.Args[3:])
	case "seal":
		if len(os.Args) < 6 {
			fatal("usage: hpketool seal <kem-id> <kdf-id> <aead-id> <recipient-public> [info] < plaintext")
		}
		seal(os.Args[2:5], os.Args[5], os.Args[6:])
	case "open":
		if len(os.Args) < 7 {
			fatal("usage: hpketool open <kem-id> <kdf-id> <aead-id> <recipient-private> <enc> [info] < ciphertext")
		}
		open(os.Args[2:5], os.Args[5], os.Args[6], os.Args[7:])
	case "export":
		if len(os.Args) < 8 {
			fatal("usage: hpketool export <kem-id> <kdf-id> <aead-id> <recipient-public> <exporter-context> <length>")
		}
		export(os.Args[2:5], os.Args[5], os.Args[6], os.Args[7])
	default:
		fatal("unknown command: %s", os.Args[1])
	}
}

type KeyPairOutput struct {
	KemID      uint16 `json:"kemId"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

func keygen(kemArg string, rest []string) {
	kem := hpke.KemID(parseID(kemArg, "kem-id"))
	suite, err := hpke.NewCipherSuite(kem, hpke.HkdfSha256, hpke.Aes128Gcm)
	if err != nil {
		fatal("suite: %v", err)
	}

	var kp *hpke.KeyPair
	if len(rest) > 0 {
		kp, err = suite.DeriveKeyPair(decode(rest[0], "ikm"))
	} else {
		kp, err = suite.GenerateKeyPair()
	}
	if err != nil {
		fatal("keygen: %v", err)
	}

	out := KeyPairOutput{
		KemID:      uint16(kem),
		PublicKey:  base64.RawURLEncoding.EncodeToString(kp.Public.Bytes()),
		PrivateKey: base64.RawURLEncoding.EncodeToString(kp.Private.Bytes()),
	}
	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		fatal("encode output: %v", err)
	}
}

type SealOutput struct {
	Enc        string `json:"enc"`
	Ciphertext string `json:"ciphertext"`
}

func seal(suiteArgs []string, pubArg string, rest []string) {
	suite := parseSuite(suiteArgs)
	pub, err := suite.ImportPublicKey(hpke.KeyFormatRaw, decode(pubArg, "recipient-public"))
	if err != nil {
		fatal("recipient key: %v", err)
	}

	plaintext, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal("read stdin: %v", err)
	}

	enc, ct, err := suite.Seal(pub, plaintext, nil, infoOption(rest)...)
	if err != nil {
		fatal("seal: %v", err)
	}

	out := SealOutput{
		Enc:        base64.RawURLEncoding.EncodeToString(enc),
		Ciphertext: base64.RawURLEncoding.EncodeToString(ct),
	}
	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		fatal("encode output: %v", err)
	}
}

type OpenOutput struct {
	Plaintext string `json:"plaintext"`
}

func open(suiteArgs []string, privArg, encArg string, rest []string) {
	suite := parseSuite(suiteArgs)
	priv, err := suite.ImportPrivateKey(hpke.KeyFormatRaw, decode(privArg, "recipient-private"))
	if err != nil {
		fatal("recipient key: %v", err)
	}

	ciphertext := decode(readTrimmed(os.Stdin), "ciphertext")
	pt, err := suite.Open(decode(encArg, "enc"), priv, ciphertext, nil, infoOption(rest)...)
	if err != nil {
		fatal("open: %v", err)
	}

	out := OpenOutput{Plaintext: base64.RawURLEncoding.EncodeToString(pt)}
	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		fatal("encode output: %v", err)
	}
}

type ExportOutput struct {
	Enc    string `json:"enc"`
	Secret string `json:"secret"`
}

func export(suiteArgs []string, pubArg, ctxArg, lenArg string) {
	suite := parseSuite(suiteArgs)
	pub, err := suite.ImportPublicKey(hpke.KeyFormatRaw, decode(pubArg, "recipient-public"))
	if err != nil {
		fatal("recipient key: %v", err)
	}
	length, err := strconv.Atoi(lenArg)
	if err != nil {
		fatal("length: %v", err)
	}

	enc, sctx, err := suite.NewSenderContext(pub)
	if err != nil {
		fatal("setup: %v", err)
	}
	defer sctx.Close()

	secret, err := sctx.Export(decode(ctxArg, "exporter-context"), length)
	if err != nil {
		fatal("export: %v", err)
	}

	out := ExportOutput{
		Enc:    base64.RawURLEncoding.EncodeToString(enc),
		Secret: base64.RawURLEncoding.EncodeToString(secret),
	}
	if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
		fatal("encode output: %v", err)
	}
}

// parseSuite builds a cipher suite from three registry identifiers, given
// as decimal or 0x-prefixed hex.
func parseSuite(args []string) *hpke.CipherSuite {
	suite, err := hpke.NewCipherSuite(
		hpke.KemID(parseID(args[0], "kem-id")),
		hpke.KdfID(parseID(args[1], "kdf-id")),
		hpke.AeadID(parseID(args[2], "aead-id")),
	)
	if err != nil {
		fatal("suite: %v", err)
	}
	return suite
}

func parseID(s, name string) uint16 {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		fatal("%s: %v", name, err)
	}
	return uint16(v)
}

func infoOption(rest []string) []hpke.ContextOption {
	if len(rest) == 0 {
		return nil
	}
	return []hpke.ContextOption{hpke.WithInfo(decode(rest[0], "info"))}
}

func decode(s, name string) []byte {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		fatal("%s: %v", name, err)
	}
	return b
}

func readTrimmed(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read stdin: %v", err)
	}
	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	return string(data)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
