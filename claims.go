package accounts

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose scopes a token to the single operation it was minted for.
// Activation and session tokens share the mint/validate path but are not
// interchangeable: Activate rejects anything but PurposeActivation.
type TokenPurpose string

const (
	// PurposeSession marks tokens minted on successful login
	PurposeSession TokenPurpose = "session"
	// PurposeActivation marks tokens mailed out during registration
	PurposeActivation TokenPurpose = "activation"
)

// AccountClaims is the signed payload carried by every token. The purpose
// travels as a claim so it is covered by the signature.
type AccountClaims struct {
	jwt.RegisteredClaims
	Purpose TokenPurpose `json:"pur,omitempty"`
}

// Username returns the token subject
func (c *AccountClaims) Username() string {
	return c.Subject
}

// Expires returns the absolute expiry timestamp
func (c *AccountClaims) Expires() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Issued returns the issuance timestamp
func (c *AccountClaims) Issued() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// Is reports whether the claims were minted for the given purpose
func (c *AccountClaims) Is(purpose TokenPurpose) bool {
	return c.Purpose == purpose
}
