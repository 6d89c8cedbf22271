package config

import _ "embed"

// embeddedPublicKeyPEM is the issuer's Ed25519 verifying key in SPKI PEM
// form, baked into every shipped binary at build time. The private half
// never leaves the vendor's offline issuer tool.
//
//go:embed public_key.pem
var embeddedPublicKeyPEM string

// EmbeddedPublicKeyPEM returns the build-time verifier public key.
func EmbeddedPublicKeyPEM() string {
	return embeddedPublicKeyPEM
}
