package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Payload is the claim set carried by both token kinds. Access and refresh
// tokens share this shape; they differ only in signing key and lifetime.
type Payload struct {
	// Subject is the authenticated user's ID.
	Subject string

	// AuthType records how the session was established ("local" or
	// "federated").
	AuthType string

	// OAuthToken optionally carries a linked external provider token for
	// federated sessions.
	OAuthToken string

	// TokenID is the per-issuance jti. Populated on verify/decode; ignored
	// on mint, where a fresh one is always generated.
	TokenID string
}

type claims struct {
	jwt.RegisteredClaims

	AuthType   string `json:"auth_type,omitempty"`
	OAuthToken string `json:"oauth_token,omitempty"`
}

func newClaims(p Payload, issuer string, ttl time.Duration) claims {
	now := time.Now().UTC()
	return claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		AuthType:   p.AuthType,
		OAuthToken: p.OAuthToken,
	}
}

func (c *claims) payload() Payload {
	return Payload{
		Subject:    c.Subject,
		AuthType:   c.AuthType,
		OAuthToken: c.OAuthToken,
		TokenID:    c.ID,
	}
}
