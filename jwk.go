package hpke

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// jwk is the subset of RFC 7518 key members the DHKEM curves use. NIST
// curves arrive as "EC" keys with affine coordinates, the Montgomery
// curves as "OKP" keys with the raw u-coordinate.
type jwk struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y,omitempty"`
	D   string `json:"d,omitempty"`
}

// jwkParams returns the kty and crv values a key for the KEM must carry.
func jwkParams(kem KemID) (kty, crv string) {
	switch kem {
	case DhkemP256HkdfSha256:
		return "EC", "P-256"
	case DhkemP384HkdfSha384:
		return "EC", "P-384"
	case DhkemP521HkdfSha512:
		return "EC", "P-521"
	case DhkemX25519HkdfSha256:
		return "OKP", "X25519"
	case DhkemX448HkdfSha512:
		return "OKP", "X448"
	default:
		return "", ""
	}
}

// jwkDecode parses a JWK document into the raw key encoding the KEM's
// group parsers expect: the scalar for private keys, the uncompressed
// point (or u-coordinate) for public keys.
func jwkDecode(kem KemID, data []byte, private bool) ([]byte, error) {
	var k jwk
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("%w: invalid JWK: %v", ErrDeserialize, err)
	}

	kty, crv := jwkParams(kem)
	if k.Kty != kty {
		return nil, &ParamError{Param: "jwk.kty", Reason: fmt.Sprintf("got %q, want %q", k.Kty, kty)}
	}
	if k.Crv != crv {
		return nil, &ParamError{Param: "jwk.crv", Reason: fmt.Sprintf("got %q, want %q", k.Crv, crv)}
	}

	if private {
		if k.D == "" {
			return nil, &ParamError{Param: "jwk.d", Reason: "missing private key member"}
		}
		d, err := base64.RawURLEncoding.DecodeString(k.D)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid JWK d member: %v", ErrDeserialize, err)
		}
		return d, nil
	}

	if k.X == "" {
		return nil, &ParamError{Param: "jwk.x", Reason: "missing public key member"}
	}
	x, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWK x member: %v", ErrDeserialize, err)
	}
	if kty == "OKP" {
		return x, nil
	}

	// EC public keys split the point into x and y; rebuild the
	// uncompressed SEC 1 encoding the parser takes.
	if k.Y == "" {
		return nil, &ParamError{Param: "jwk.y", Reason: "missing public key member"}
	}
	y, err := base64.RawURLEncoding.DecodeString(k.Y)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JWK y member: %v", ErrDeserialize, err)
	}
	coord := (kem.PublicKeySize() - 1) / 2
	if len(x) != coord || len(y) != coord {
		return nil, fmt.Errorf("%w: JWK coordinate sizes %d/%d, want %d", ErrDeserialize, len(x), len(y), coord)
	}
	point := make([]byte, 0, kem.PublicKeySize())
	point = append(point, 0x04)
	point = append(point, x...)
	point = append(point, y...)
	return point, nil
}
