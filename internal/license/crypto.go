package license

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Sha256Hex returns the lowercase hex SHA-256 digest of the input. The
// hash is a correlation key, not a secret: the same identifier always
// produces the same digest, and the license string reveals nothing about
// the identifier beyond it.
func Sha256Hex(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// HashPIB hashes a plaintext tax identifier after trimming surrounding
// whitespace. Verification never stores or compares the plaintext PIB,
// only this digest.
func HashPIB(pib string) string {
	return Sha256Hex(strings.TrimSpace(pib))
}

// Encode encodes bytes with the transport encoding used throughout the
// subsystem: URL-and-filename-safe base64 without padding.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode reverses Encode. Invalid alphabet or padding characters yield
// ErrMalformedEncoding.
func Decode(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return b, nil
}
