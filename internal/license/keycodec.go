package license

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"
)

// spkiPrefix is the fixed DER header of a SubjectPublicKeyInfo wrapping
// an Ed25519 key: SEQUENCE(44), SEQUENCE(5) { OID 1.3.101.112 },
// BIT STRING(33) with zero unused bits. Followed by exactly 32 raw key
// bytes. This codec supports exactly one key type and size; it is not a
// certificate parser.
var spkiPrefix = []byte{
	0x30, 0x2a, 0x30, 0x05, 0x06, 0x03, 0x2b, 0x65, 0x70, 0x03, 0x21, 0x00,
}

const (
	spkiLen      = 44
	pemBegin     = "-----BEGIN PUBLIC KEY-----"
	pemEnd       = "-----END PUBLIC KEY-----"
	pemLineWidth = 64
)

// EncodePublicKeyPEM wraps a raw 32-byte Ed25519 public key in the
// standard SPKI PEM container.
func EncodePublicKeyPEM(pub ed25519.PublicKey) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: key is %d bytes, want %d", ErrUnsupportedKeyFormat, len(pub), ed25519.PublicKeySize)
	}

	der := make([]byte, 0, spkiLen)
	der = append(der, spkiPrefix...)
	der = append(der, pub...)

	b64 := base64.StdEncoding.EncodeToString(der)

	var sb strings.Builder
	sb.WriteString(pemBegin)
	sb.WriteByte('\n')
	for len(b64) > pemLineWidth {
		sb.WriteString(b64[:pemLineWidth])
		sb.WriteByte('\n')
		b64 = b64[pemLineWidth:]
	}
	sb.WriteString(b64)
	sb.WriteByte('\n')
	sb.WriteString(pemEnd)
	sb.WriteByte('\n')
	return sb.String(), nil
}

// DecodePublicKeyPEM extracts the raw 32-byte Ed25519 public key from an
// SPKI PEM container. Anything other than a 44-byte DER body with the
// expected prefix fails with ErrUnsupportedKeyFormat.
func DecodePublicKeyPEM(pemStr string) (ed25519.PublicKey, error) {
	var b64 strings.Builder
	for _, line := range strings.Split(pemStr, "\n") {
		l := strings.TrimSpace(line)
		if l == "" || strings.HasPrefix(l, "-----BEGIN") || strings.HasPrefix(l, "-----END") {
			continue
		}
		b64.WriteString(l)
	}

	der, err := base64.StdEncoding.DecodeString(b64.String())
	if err != nil {
		return nil, fmt.Errorf("%w: pem base64: %v", ErrUnsupportedKeyFormat, err)
	}
	if len(der) != spkiLen || !bytes.Equal(der[:len(spkiPrefix)], spkiPrefix) {
		return nil, fmt.Errorf("%w: not an SPKI ed25519 key", ErrUnsupportedKeyFormat)
	}

	return ed25519.PublicKey(der[len(spkiPrefix):]), nil
}
