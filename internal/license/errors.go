package license

import "errors"

// Fatal errors returned by the codec and verifier. These indicate input
// that is not a recognizable license artifact (corruption or tampering)
// and are distinct from the Verdict reasons, which model expected
// license lifecycle states.
var (
	// ErrMalformedEncoding is returned when a base64url segment cannot
	// be decoded. Callers must treat this as an unverifiable license,
	// never as valid by default.
	ErrMalformedEncoding = errors.New("malformed base64url encoding")

	// ErrInvalidPayload is returned when decoded payload bytes do not
	// form a structurally valid license payload, including a yearly
	// license without valid_until.
	ErrInvalidPayload = errors.New("invalid license payload")

	// ErrSignatureInvalid is returned when the Ed25519 signature does
	// not verify over the exact payload bytes.
	ErrSignatureInvalid = errors.New("license signature verification failed")

	// ErrUnsupportedKeyFormat is returned when a PEM block is not an
	// SPKI-wrapped 32-byte Ed25519 public key.
	ErrUnsupportedKeyFormat = errors.New("unsupported public key format")

	// ErrInvalidActivationCode covers every issuer-side rejection of an
	// activation code: malformed base64, malformed JSON, missing fields
	// or an app_id mismatch. Each wrap carries a distinct message.
	ErrInvalidActivationCode = errors.New("invalid activation code")
)
