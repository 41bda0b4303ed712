package hpke

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidParam is returned when a caller-supplied parameter violates
	// a length or presence invariant.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrSerialize is returned when key material cannot be serialized.
	ErrSerialize = errors.New("key serialization failed")

	// ErrDeserialize is returned when key material or a context encoding
	// cannot be deserialized.
	ErrDeserialize = errors.New("key deserialization failed")

	// ErrEncap is returned when KEM encapsulation fails.
	ErrEncap = errors.New("encapsulation failed")

	// ErrDecap is returned when KEM decapsulation fails.
	ErrDecap = errors.New("decapsulation failed")

	// ErrDeriveKeyPair is returned when deterministic key-pair derivation
	// fails to find a valid key within its attempt bound.
	ErrDeriveKeyPair = errors.New("key pair derivation failed")

	// ErrExport is returned when exporter-secret derivation fails.
	ErrExport = errors.New("secret export failed")

	// ErrSeal is returned when AEAD encryption fails.
	ErrSeal = errors.New("seal failed")

	// ErrOpen is returned whenever a ciphertext is rejected, regardless of
	// cause. Authentication failure and malformed input are not
	// distinguishable from each other.
	ErrOpen = errors.New("open failed")

	// ErrMessageLimitReached is returned once a context's sequence space is
	// exhausted. The context is permanently unusable for seal and open;
	// continuing requires a fresh encapsulation.
	ErrMessageLimitReached = errors.New("message limit reached")

	// ErrNotSupported is returned for operations the configured algorithms
	// do not provide, such as seal or open on an export-only suite.
	ErrNotSupported = errors.New("operation not supported")

	// ErrContextClosed is returned when operations are attempted on a
	// closed encryption context.
	ErrContextClosed = errors.New("context has been closed")
)

// HPKEError is implemented by all typed errors in this package.
type HPKEError interface {
	error
	HPKEError() // marker method
}

// ParamError reports a caller-supplied parameter that violates a length or
// presence invariant.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *ParamError) Is(target error) bool {
	return target == ErrInvalidParam
}

// HPKEError implements the HPKEError interface.
func (e *ParamError) HPKEError() {}

// EncapError wraps a failure inside KEM encapsulation.
type EncapError struct {
	Err error
}

func (e *EncapError) Error() string {
	return fmt.Sprintf("encapsulation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *EncapError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *EncapError) Is(target error) bool {
	return target == ErrEncap
}

// HPKEError implements the HPKEError interface.
func (e *EncapError) HPKEError() {}

// DecapError wraps a failure inside KEM decapsulation.
type DecapError struct {
	Err error
}

func (e *DecapError) Error() string {
	return fmt.Sprintf("decapsulation failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecapError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecapError) Is(target error) bool {
	return target == ErrDecap
}

// HPKEError implements the HPKEError interface.
func (e *DecapError) HPKEError() {}

// DeriveKeyPairError reports that deterministic key-pair derivation did not
// produce a valid key.
type DeriveKeyPairError struct {
	// Attempts is the number of rejection-sampling rounds tried.
	Attempts int
	Err      error
}

func (e *DeriveKeyPairError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("key pair derivation failed: %v", e.Err)
	}
	return fmt.Sprintf("no valid key pair after %d attempts", e.Attempts)
}

// Unwrap returns the underlying error.
func (e *DeriveKeyPairError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DeriveKeyPairError) Is(target error) bool {
	return target == ErrDeriveKeyPair
}

// HPKEError implements the HPKEError interface.
func (e *DeriveKeyPairError) HPKEError() {}
