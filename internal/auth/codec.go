// Package auth implements signed, purpose-tagged, expiring tokens and
// password hashing. The codec is stateless: verification is a pure function
// of the signing key, the token, and the clock.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yshchur/contacts-api/internal/common"
)

// Purpose tags a token with the single operation it is valid for, so a
// refresh token can never be replayed as an access token and vice versa.
type Purpose string

const (
	PurposeAccess      Purpose = "access"
	PurposeRefresh     Purpose = "refresh"
	PurposeEmailVerify Purpose = "email_verify"
)

// ErrEmptySigningKey is returned by NewCodec when no key material is
// configured. This is a startup-fatal condition, not a per-request one.
var ErrEmptySigningKey = errors.New("auth: empty signing key")

// Claims embeds the registered JWT claims and adds the purpose tag. PairJTI
// is set on refresh tokens only and names the access token issued alongside,
// so rotation can evict the paired cache entry.
type Claims struct {
	jwt.RegisteredClaims
	Purpose Purpose `json:"purpose"`
	PairJTI string  `json:"pjti,omitempty"`
}

// Token is the decoded view of an issued or verified token.
type Token struct {
	Raw       string
	JTI       string
	Subject   string
	Purpose   Purpose
	PairJTI   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec signs and verifies tokens with HS256. The key is loaded once at
// startup and never mutated.
type Codec struct {
	key []byte
	now func() time.Time
}

func NewCodec(key []byte) (*Codec, error) {
	if len(key) == 0 {
		return nil, ErrEmptySigningKey
	}
	return &Codec{key: key, now: time.Now}, nil
}

// Issue produces a signed token bound to subject, valid for ttl.
func (c *Codec) Issue(subject string, purpose Purpose, ttl time.Duration) (*Token, error) {
	return c.issue(subject, purpose, ttl, "")
}

// IssuePaired is Issue with the jti of a companion token recorded in the
// claims. Used when minting a refresh token next to an access token.
func (c *Codec) IssuePaired(subject string, purpose Purpose, ttl time.Duration, pairJTI string) (*Token, error) {
	return c.issue(subject, purpose, ttl, pairJTI)
}

func (c *Codec) issue(subject string, purpose Purpose, ttl time.Duration, pairJTI string) (*Token, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
		PairJTI: pairJTI,
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return nil, err
	}

	return &Token{
		Raw:       raw,
		JTI:       claims.ID,
		Subject:   subject,
		Purpose:   purpose,
		PairJTI:   pairJTI,
		IssuedAt:  now,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify parses raw, checks the signature and expiry, and requires the
// embedded purpose to equal expected. Failures map to the shared sentinel
// errors so callers can match with errors.Is.
func (c *Codec) Verify(raw string, expected Purpose) (*Token, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, common.ErrInvalidSignature
		default:
			return nil, common.ErrMalformedToken
		}
	}
	if !parsed.Valid {
		return nil, common.ErrInvalidSignature
	}
	if claims.Purpose != expected {
		return nil, common.ErrPurposeMismatch
	}

	tok := &Token{
		Raw:     raw,
		JTI:     claims.ID,
		Subject: claims.Subject,
		Purpose: claims.Purpose,
		PairJTI: claims.PairJTI,
	}
	if claims.IssuedAt != nil {
		tok.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		tok.ExpiresAt = claims.ExpiresAt.Time
	}
	return tok, nil
}
