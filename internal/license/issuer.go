package license

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Separator joins the payload and signature segments of a license string.
const Separator = "."

// YearlyValidity is the validity window of a yearly license: a fixed
// 365-day year, with no leap-year or calendar-month adjustment.
const YearlyValidity = 365 * 24 * time.Hour

// Issuer mints license strings. It holds the Ed25519 signing key and
// runs only in the vendor's offline tool, never in the shipped product.
type Issuer struct {
	key   ed25519.PrivateKey
	appID string
}

// NewIssuer builds an issuer from a 32-byte Ed25519 seed.
func NewIssuer(seed []byte, appID string) (*Issuer, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("issuer seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Issuer{key: ed25519.NewKeyFromSeed(seed), appID: appID}, nil
}

// NewIssuerFromSeedHex builds an issuer from a hex-encoded 32-byte seed.
func NewIssuerFromSeedHex(seedHex, appID string) (*Issuer, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decode issuer seed hex: %w", err)
	}
	return NewIssuer(seed, appID)
}

// Issue validates an activation code and mints a signed license string
// bound to the identifier hash the code carries. valid_from is now in
// UTC truncated to whole seconds, so re-serialization round-trips
// exactly. The payload is serialized exactly once and the signature
// covers those exact bytes.
func (i *Issuer) Issue(activationCode string, typ Type, now time.Time) (string, error) {
	activation, err := DecodeActivationCode(activationCode, i.appID)
	if err != nil {
		return "", err
	}

	validFrom := now.UTC().Truncate(time.Second)

	payload := Payload{
		LicenseType: typ,
		ValidFrom:   validFrom.Format(time.RFC3339),
		PIBHash:     activation.PIBHash,
	}
	if typ == TypeYearly {
		payload.ValidUntil = validFrom.Add(YearlyValidity).Format(time.RFC3339)
	}

	raw, err := json.Marshal(&payload)
	if err != nil {
		return "", fmt.Errorf("marshal license payload: %w", err)
	}

	sig := ed25519.Sign(i.key, raw)
	return Encode(raw) + Separator + Encode(sig), nil
}

// PublicKeyPEM returns the issuer's verifying key in SPKI PEM form, for
// embedding in the product build.
func (i *Issuer) PublicKeyPEM() (string, error) {
	return EncodePublicKeyPEM(i.key.Public().(ed25519.PublicKey))
}
