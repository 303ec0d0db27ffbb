// Package jwtx implements the token codec: minting and verifying the signed
// access/refresh token pair. Each token kind has its own Ed25519 key pair,
// so an access token can never pass verification where a refresh token is
// required, and vice versa. Verification is a pure cryptographic check and
// never touches storage.
package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token lifetimes. The refresh lifetime bounds the signature only;
// the session store enforces its own longer cap on the session row.
const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Kind selects which key pair and lifetime a codec operation uses.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	// ErrInvalidToken reports a malformed token, a bad signature, or a
	// token signed for the other kind.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	// ErrExpiredToken reports a cryptographically valid token past its
	// lifetime.
	ErrExpiredToken = errors.New("jwtx: token expired")
)

type kindKeys struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
	ttl  time.Duration
}

// Codec mints and verifies the two token kinds. It is stateless and safe
// for concurrent use.
type Codec struct {
	issuer  string
	access  kindKeys
	refresh kindKeys
}

// CodecOptions configures a Codec. AccessKey and RefreshKey must be
// distinct Ed25519 private keys; the matching public halves are derived.
type CodecOptions struct {
	Issuer     string
	AccessKey  ed25519.PrivateKey
	RefreshKey ed25519.PrivateKey

	// AccessTTL / RefreshTTL override the default lifetimes when positive.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewCodec wires the four keys (two private, two derived public) into a
// ready-to-use codec.
func NewCodec(opts CodecOptions) (*Codec, error) {
	if opts.Issuer == "" {
		return nil, errors.New("jwtx: issuer is required")
	}
	if len(opts.AccessKey) != ed25519.PrivateKeySize || len(opts.RefreshKey) != ed25519.PrivateKeySize {
		return nil, errors.New("jwtx: both token kinds need a valid Ed25519 private key")
	}

	accessTTL := opts.AccessTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	refreshTTL := opts.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}

	return &Codec{
		issuer: opts.Issuer,
		access: kindKeys{
			priv: opts.AccessKey,
			pub:  opts.AccessKey.Public().(ed25519.PublicKey),
			ttl:  accessTTL,
		},
		refresh: kindKeys{
			priv: opts.RefreshKey,
			pub:  opts.RefreshKey.Public().(ed25519.PublicKey),
			ttl:  refreshTTL,
		},
	}, nil
}

func (c *Codec) keys(kind Kind) (kindKeys, error) {
	switch kind {
	case KindAccess:
		return c.access, nil
	case KindRefresh:
		return c.refresh, nil
	default:
		return kindKeys{}, fmt.Errorf("jwtx: unknown token kind %q", kind)
	}
}

// Mint signs a fresh token of the given kind. Every call embeds a new jti,
// so two tokens for the same payload are still distinguishable.
func (c *Codec) Mint(p Payload, kind Kind) (string, error) {
	k, err := c.keys(kind)
	if err != nil {
		return "", err
	}

	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, newClaims(p, c.issuer, k.ttl))
	signed, err := t.SignedString(k.priv)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks the token's signature against the kind's public key and its
// expiry, returning the embedded payload. Storage is never consulted.
func (c *Codec) Verify(tokenStr string, kind Kind) (Payload, error) {
	k, err := c.keys(kind)
	if err != nil {
		return Payload{}, err
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (any, error) {
		return k.pub, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Payload{}, ErrExpiredToken
		}
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	cl, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Payload{}, ErrInvalidToken
	}
	if c.issuer != "" && cl.Issuer != c.issuer {
		return Payload{}, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}

	return cl.payload(), nil
}

// DecodeUnsafe extracts the payload without verifying signature or expiry.
// It exists solely so the session engine can recover the subject of an
// already-rejected refresh token and delete the matching stale session row.
// Never use it for authorization decisions.
func (c *Codec) DecodeUnsafe(tokenStr string) (Payload, bool) {
	var cl claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &cl); err != nil {
		return Payload{}, false
	}
	if cl.Subject == "" {
		return Payload{}, false
	}
	return cl.payload(), true
}
