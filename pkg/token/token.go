// Package token issues and validates the opaque single-use tokens sent by
// email for account verification and password reset.
package token

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

const (
	// Length is the number of characters in an issued token.
	Length = 64

	charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Status is the outcome of validating a presented token.
type Status int

const (
	NotFound Status = iota
	Expired
	Valid
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case Expired:
		return "expired"
	default:
		return "not_found"
	}
}

// Issuer produces random tokens with an absolute expiry.
type Issuer struct {
	now func() time.Time
}

func NewIssuer() *Issuer {
	return &Issuer{now: time.Now}
}

// WithClock returns an issuer using the given clock. Intended for tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	return &Issuer{now: now}
}

func (i *Issuer) Now() time.Time {
	return i.now()
}

// Issue returns a fresh token and the instant it stops being valid.
func (i *Issuer) Issue(ttl time.Duration) (string, time.Time, error) {
	tok, err := Generate(Length)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, i.now().Add(ttl), nil
}

// Generate returns n characters drawn uniformly from the token charset.
func Generate(n int) (string, error) {
	max := big.NewInt(int64(len(charset)))
	b := make([]byte, n)
	for idx := range b {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		b[idx] = charset[v.Int64()]
	}
	return string(b), nil
}

// Validate compares presented against the stored token. A nil or empty
// stored value is reported as NotFound.
func Validate(stored *string, expiresAt *time.Time, presented string, now time.Time) Status {
	if stored == nil || *stored == "" || presented == "" {
		return NotFound
	}
	if subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) != 1 {
		return NotFound
	}
	if expiresAt == nil || !now.Before(*expiresAt) {
		return Expired
	}
	return Valid
}
