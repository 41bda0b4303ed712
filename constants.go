package hpke

const (
	// maxInfoLen is the maximum length of the application-supplied info
	// string bound into the key schedule.
	maxInfoLen = 8192

	// minPSKLen is the minimum pre-shared key length. Shorter keys do not
	// carry enough entropy for the Psk/AuthPsk modes.
	minPSKLen = 32
	// maxPSKLen is the maximum pre-shared key length.
	maxPSKLen = 8192
	// maxPSKIDLen is the maximum pre-shared key identifier length.
	maxPSKIDLen = 8192

	// maxIKMLen is the maximum input keying material length accepted by
	// DeriveKeyPair and WithEphemeralSeed.
	maxIKMLen = 8192

	// maxExporterContextLen is the maximum exporter context length
	// accepted by Export.
	maxExporterContextLen = 8192

	// versionLabel prefixes every labeled KDF input (RFC 9180 §4).
	versionLabel = "HPKE-v1"

	// deriveKeyPairAttempts bounds the rejection-sampling loop in
	// DeriveKeyPair on the NIST curves (RFC 9180 §7.1.3).
	deriveKeyPairAttempts = 256
)

// Mode identifiers, embedded as the first byte of the key schedule context.
const (
	modeBase    byte = 0x00
	modePSK     byte = 0x01
	modeAuth    byte = 0x02
	modeAuthPSK byte = 0x03
)
