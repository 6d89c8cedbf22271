package license

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeActivation(t *testing.T, p ActivationPayload) string {
	t.Helper()
	raw, err := json.Marshal(&p)
	require.NoError(t, err)
	return Encode(raw)
}

func TestGenerateActivationCodeRoundTrip(t *testing.T) {
	hash := HashPIB("123456789")

	code, err := GenerateActivationCode(hash, AppID, 1700000000)
	require.NoError(t, err)

	payload, err := DecodeActivationCode(code, AppID)
	require.NoError(t, err)

	assert.Equal(t, hash, payload.PIBHash)
	assert.Equal(t, int64(1700000000), payload.IssuedAt)
	assert.Equal(t, AppID, payload.AppID)

	nonce, err := Decode(payload.Nonce)
	require.NoError(t, err)
	assert.Len(t, nonce, nonceSize)
}

func TestGenerateActivationCodeNoncesDiffer(t *testing.T) {
	// Two requests for the same identifier at the same second must stay
	// distinguishable.
	hash := HashPIB("123456789")

	first, err := GenerateActivationCode(hash, AppID, 1700000000)
	require.NoError(t, err)
	second, err := GenerateActivationCode(hash, AppID, 1700000000)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecodeActivationCodeTrimsWhitespace(t *testing.T) {
	code, err := GenerateActivationCode(HashPIB("123456789"), AppID, 1700000000)
	require.NoError(t, err)

	_, err = DecodeActivationCode("  "+code+"\n", AppID)
	require.NoError(t, err)
}

func TestDecodeActivationCodeRejections(t *testing.T) {
	valid := ActivationPayload{
		PIBHash:  HashPIB("123456789"),
		IssuedAt: 1700000000,
		Nonce:    Encode(make([]byte, nonceSize)),
		AppID:    AppID,
	}

	tests := []struct {
		name        string
		code        string
		msgContains string
	}{
		{
			name:        "malformed base64url",
			code:        "not//valid//base64==",
			msgContains: "base64url",
		},
		{
			name:        "malformed json",
			code:        Encode([]byte("{not json")),
			msgContains: "json",
		},
		{
			name: "missing pib_hash",
			code: encodeActivation(t, func() ActivationPayload {
				p := valid
				p.PIBHash = ""
				return p
			}()),
			msgContains: "pib_hash",
		},
		{
			name: "zero issued_at",
			code: encodeActivation(t, func() ActivationPayload {
				p := valid
				p.IssuedAt = 0
				return p
			}()),
			msgContains: "issued_at",
		},
		{
			name: "negative issued_at",
			code: encodeActivation(t, func() ActivationPayload {
				p := valid
				p.IssuedAt = -5
				return p
			}()),
			msgContains: "issued_at",
		},
		{
			name: "missing nonce",
			code: encodeActivation(t, func() ActivationPayload {
				p := valid
				p.Nonce = ""
				return p
			}()),
			msgContains: "nonce",
		},
		{
			name: "app_id mismatch",
			code: encodeActivation(t, func() ActivationPayload {
				p := valid
				p.AppID = "com.example.other-app"
				return p
			}()),
			msgContains: "app_id mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeActivationCode(tt.code, AppID)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidActivationCode)
			assert.Contains(t, err.Error(), tt.msgContains)
		})
	}
}
