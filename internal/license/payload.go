package license

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is the license class. It serializes as an upper-snake string
// through an explicit mapping table so the wire form never depends on
// the Go identifier names.
type Type int

const (
	// TypeYearly licenses carry a valid_until exactly 365 days after
	// valid_from. The fixed-length year is deliberate: already-issued
	// licenses depend on it, so it must not be "corrected" to a
	// calendar anniversary.
	TypeYearly Type = iota
	// TypeLifetime licenses never expire and omit valid_until entirely
	// from the serialized payload.
	TypeLifetime
)

var typeNames = map[Type]string{
	TypeYearly:   "YEARLY",
	TypeLifetime: "LIFETIME",
}

var typeValues = map[string]Type{
	"YEARLY":   TypeYearly,
	"LIFETIME": TypeLifetime,
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType parses a license class name, case-insensitively, as accepted
// by the issuer CLI.
func ParseType(s string) (Type, error) {
	if t, ok := typeValues[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown license type %q (want yearly or lifetime)", s)
}

// MarshalJSON implements json.Marshaler.
func (t Type) MarshalJSON() ([]byte, error) {
	name, ok := typeNames[t]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unknown license type %d", int(t))
	}
	return json.Marshal(name)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Type) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	v, ok := typeValues[name]
	if !ok {
		return fmt.Errorf("unknown license type %q", name)
	}
	*t = v
	return nil
}

// Payload is the signed claims object. It is constructed once by the
// issuer at signing time and immutable thereafter; the signature covers
// its exact serialized bytes, so it must never be re-serialized through
// a generic map or with different field order.
type Payload struct {
	LicenseType Type   `json:"license_type"`
	ValidFrom   string `json:"valid_from"`
	ValidUntil  string `json:"valid_until,omitempty"`
	PIBHash     string `json:"pib_hash"`
}

// Reason is an expected, user-recoverable license lifecycle state. It is
// returned as data inside a Verdict, always paired with IsValid == false.
type Reason string

const (
	ReasonInvalidFormat Reason = "invalid_format"
	ReasonPIBMismatch   Reason = "pib_mismatch"
	ReasonNotYetValid   Reason = "not_yet_valid"
	ReasonExpired       Reason = "expired"
)

// Verdict is the structured, non-exceptional result of a verification
// attempt. It is a pure function of (license string, expected hash,
// public key, clock) and recomputed on every check.
//
// When Reason is ReasonPIBMismatch the LicenseType and ValidUntil fields
// come from a payload whose signature has not yet been checked. They are
// diagnostic hints only and must never gate features.
type Verdict struct {
	LicenseType string `json:"license_type,omitempty"`
	ValidUntil  string `json:"valid_until,omitempty"`
	IsValid     bool   `json:"is_valid"`
	Reason      Reason `json:"reason,omitempty"`
}
