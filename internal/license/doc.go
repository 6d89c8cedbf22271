// Package license implements the offline license issuance and verification
// subsystem for the Pausaler desktop application.
//
// # Architecture Overview
//
// The subsystem has two actors with asymmetric trust:
//
//	- Issuer: vendor-side offline tool holding the Ed25519 signing key,
//	  the only entity able to mint valid licenses
//	- Verifier: embedded in every shipped copy of the product, holding
//	  only the SPKI PEM public key
//
// Between them sits an activation code, generated by the user's
// installation and transferred to the vendor out-of-band. It binds the
// license to a hashed tax identifier (PIB) without revealing the
// identifier's plaintext over that channel.
//
// # Wire Formats
//
// The license string is two base64url (no padding) segments joined by a
// single dot:
//
//	B64URL(json(payload)) + "." + B64URL(raw 64-byte ed25519 signature)
//
// The payload carries license_type ("YEARLY" or "LIFETIME"), valid_from
// (RFC3339, second precision), valid_until (present only for yearly) and
// pib_hash (lowercase 64-hex SHA-256 of the trimmed PIB). The signature
// covers the exact serialized payload bytes; the payload is serialized
// once at issuance and never re-serialized afterwards.
//
// The activation code is a single base64url segment wrapping a JSON
// document with pib_hash, issued_at (unix seconds), nonce (16 random
// bytes, base64url) and app_id. It is unsigned: the activation code is
// not a trust boundary, only the license is.
//
// # Error Tiers
//
// Verification distinguishes two tiers that must not be collapsed:
//
//	- Verdict reasons: expected license lifecycle states (invalid_format,
//	  pib_mismatch, not_yet_valid, expired) returned as data
//	- Fatal errors: malformed encoding, unparseable payloads, invalid
//	  signatures, unsupported key formats; these indicate the input is
//	  not a recognizable license artifact at all and propagate as errors
//
// Every operation in this package is a pure function of its explicit
// inputs and is safe for concurrent use.
package license
