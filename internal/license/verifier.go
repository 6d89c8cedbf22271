package license

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// incomingPayload mirrors Payload with a pointer license_type, so a
// JSON document that omits the field is distinguishable from one that
// carries a value.
type incomingPayload struct {
	LicenseType *Type  `json:"license_type"`
	ValidFrom   string `json:"valid_from"`
	ValidUntil  string `json:"valid_until"`
	PIBHash     string `json:"pib_hash"`
}

// parsePayload deserializes the payload bytes. license_type, valid_from
// and pib_hash are required; a document missing any of them is not a
// license payload, so the failure is fatal rather than a soft verdict.
func parsePayload(payloadBytes []byte) (Payload, error) {
	var in incomingPayload
	if err := json.Unmarshal(payloadBytes, &in); err != nil {
		return Payload{}, fmt.Errorf("%w: json: %v", ErrInvalidPayload, err)
	}

	switch {
	case in.LicenseType == nil:
		return Payload{}, fmt.Errorf("%w: missing license_type", ErrInvalidPayload)
	case in.ValidFrom == "":
		return Payload{}, fmt.Errorf("%w: missing valid_from", ErrInvalidPayload)
	case in.PIBHash == "":
		return Payload{}, fmt.Errorf("%w: missing pib_hash", ErrInvalidPayload)
	}

	return Payload{
		LicenseType: *in.LicenseType,
		ValidFrom:   in.ValidFrom,
		ValidUntil:  in.ValidUntil,
		PIBHash:     in.PIBHash,
	}, nil
}

// Verify checks a license string against the expected identifier hash
// and the embedded public key at the given time.
//
// Expected lifecycle outcomes come back as a Verdict with a Reason and a
// nil error. Fatal conditions (malformed encoding, unparseable payload,
// invalid signature, unsupported key) come back as errors wrapping the
// package sentinels: they indicate corruption or tampering, not a normal
// license state.
//
// The format split and the identifier comparison run before signature
// verification, so a wrong-identifier license reports pib_mismatch even
// when its signature would not verify. The Verdict fields populated in
// that case are untrusted hints.
func Verify(licenseStr, expectedPIBHash, publicKeyPEM string, now time.Time) (*Verdict, error) {
	parts := strings.Split(licenseStr, Separator)
	if len(parts) != 2 {
		return &Verdict{Reason: ReasonInvalidFormat}, nil
	}

	payloadBytes, err := Decode(parts[0])
	if err != nil {
		return nil, err
	}
	sigBytes, err := Decode(parts[1])
	if err != nil {
		return nil, err
	}

	payload, err := parsePayload(payloadBytes)
	if err != nil {
		return nil, err
	}

	if payload.PIBHash != expectedPIBHash {
		return &Verdict{
			LicenseType: payload.LicenseType.String(),
			ValidUntil:  payload.ValidUntil,
			Reason:      ReasonPIBMismatch,
		}, nil
	}

	pub, err := DecodePublicKeyPEM(publicKeyPEM)
	if err != nil {
		return nil, err
	}
	if len(sigBytes) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: signature is %d bytes, want %d", ErrSignatureInvalid, len(sigBytes), ed25519.SignatureSize)
	}
	if !ed25519.Verify(pub, payloadBytes, sigBytes) {
		return nil, ErrSignatureInvalid
	}

	validFrom, err := time.Parse(time.RFC3339, payload.ValidFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: valid_from: %v", ErrInvalidPayload, err)
	}
	if now.Before(validFrom) {
		return &Verdict{
			LicenseType: payload.LicenseType.String(),
			ValidUntil:  payload.ValidUntil,
			Reason:      ReasonNotYetValid,
		}, nil
	}

	switch payload.LicenseType {
	case TypeLifetime:
		return &Verdict{LicenseType: typeNames[TypeLifetime], IsValid: true}, nil

	case TypeYearly:
		if payload.ValidUntil == "" {
			return nil, fmt.Errorf("%w: yearly license missing valid_until", ErrInvalidPayload)
		}
		validUntil, err := time.Parse(time.RFC3339, payload.ValidUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: valid_until: %v", ErrInvalidPayload, err)
		}
		if now.After(validUntil) {
			return &Verdict{
				LicenseType: typeNames[TypeYearly],
				ValidUntil:  payload.ValidUntil,
				Reason:      ReasonExpired,
			}, nil
		}
		return &Verdict{
			LicenseType: typeNames[TypeYearly],
			ValidUntil:  payload.ValidUntil,
			IsValid:     true,
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown license type %d", ErrInvalidPayload, int(payload.LicenseType))
	}
}

// VerifyPIB is the product-side entry point: it freshly recomputes the
// identifier hash from the plaintext PIB currently configured in the
// host application, never trusting a stored hash, and delegates to
// Verify.
func VerifyPIB(licenseStr, pib, publicKeyPEM string, now time.Time) (*Verdict, error) {
	return Verify(licenseStr, HashPIB(pib), publicKeyPEM, now)
}
