package license

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
)

// AppID is the canonical product identifier embedded in every activation
// code. The issuer refuses codes generated for any other product.
const AppID = "com.dstankovski.pausaler-app"

const nonceSize = 16

// ActivationPayload is the unsigned request document a user's
// installation emits when asking for a license. It is created fresh for
// every request and not persisted beyond the moment of transfer.
type ActivationPayload struct {
	PIBHash  string `json:"pib_hash"`
	IssuedAt int64  `json:"issued_at"`
	Nonce    string `json:"nonce"`
	AppID    string `json:"app_id"`
}

// GenerateActivationCode builds and encodes an activation code for the
// given identifier hash. The nonce makes two requests for the same
// identifier at the same second distinguishable; it is drawn from the
// OS CSPRNG and is not checked by the verifier.
func GenerateActivationCode(pibHash, appID string, issuedAt int64) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("draw activation nonce: %w", err)
	}

	payload := ActivationPayload{
		PIBHash:  pibHash,
		IssuedAt: issuedAt,
		Nonce:    Encode(nonce),
		AppID:    appID,
	}

	raw, err := json.Marshal(&payload)
	if err != nil {
		return "", fmt.Errorf("marshal activation payload: %w", err)
	}
	return Encode(raw), nil
}

// DecodeActivationCode decodes and validates an activation code on the
// issuer side. Every violation is fatal to the issuance attempt and
// wraps ErrInvalidActivationCode with a distinct message: malformed
// base64url, malformed JSON, a missing or empty field, or an app_id
// that does not exactly equal expectedAppID.
func DecodeActivationCode(code, expectedAppID string) (*ActivationPayload, error) {
	raw, err := Decode(strings.TrimSpace(code))
	if err != nil {
		return nil, fmt.Errorf("%w: base64url: %v", ErrInvalidActivationCode, err)
	}

	var payload ActivationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrInvalidActivationCode, err)
	}

	if payload.PIBHash == "" {
		return nil, fmt.Errorf("%w: missing pib_hash", ErrInvalidActivationCode)
	}
	if payload.IssuedAt <= 0 {
		return nil, fmt.Errorf("%w: issued_at must be positive", ErrInvalidActivationCode)
	}
	if payload.Nonce == "" {
		return nil, fmt.Errorf("%w: missing nonce", ErrInvalidActivationCode)
	}
	if payload.AppID != expectedAppID {
		return nil, fmt.Errorf("%w: app_id mismatch: expected %q, got %q", ErrInvalidActivationCode, expectedAppID, payload.AppID)
	}

	return &payload, nil
}
