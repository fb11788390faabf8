// Package token signs and verifies compact session tokens.
// A token binds a subject (the user's email) to an issue instant and a
// fixed-TTL expiry, signed with a process-wide symmetric key.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure reasons.
var (
	// ErrBadSignature indicates the signature does not match the signing key.
	ErrBadSignature = errors.New("token signature is invalid")
	// ErrMalformed indicates the token is not a parseable JWT.
	ErrMalformed = errors.New("token is malformed")
	// ErrExpired indicates the token is at or past its expiry instant.
	ErrExpired = errors.New("token is expired")
)

// Codec issues and verifies HS256-signed session tokens.
// It is stateless; both operations are pure given the signing key.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec creates a Codec with the given signing secret and token TTL.
func NewCodec(secret string, ttl time.Duration, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token TTL must be positive")
	}

	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue produces a signed token for the given subject.
// The token carries the current instant as iat and current instant + TTL as exp.
func (c *Codec) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := c.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature integrity and expiry, returning the subject.
// Expiry is strict: a token is valid only while now < exp, so it is
// rejected exactly at its stated expiry instant.
func (c *Codec) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return "", mapJWTError(err)
	}

	if claims.Subject == "" {
		return "", ErrMalformed
	}
	if claims.ExpiresAt == nil {
		return "", ErrMalformed
	}
	if !c.now().UTC().Before(claims.ExpiresAt.Time) {
		return "", ErrExpired
	}

	return claims.Subject, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// mapJWTError translates jwt library errors to codec errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	default:
		return ErrMalformed
	}
}
