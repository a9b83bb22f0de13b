// Package jwtauth signs and parses the bearer tokens used by the API.
package jwtauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrWrongType = errors.New("unexpected token type")

type Claims struct {
	Role string `json:"role"`
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSigner(secret string, accessTTL, refreshTTL time.Duration) *Signer {
	return &Signer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (s *Signer) AccessTTL() time.Duration { return s.accessTTL }

// Pair signs an access token and a refresh token for the subject.
func (s *Signer) Pair(subject, role string) (access, refresh string, err error) {
	now := time.Now()
	access, err = s.sign(subject, role, TypeAccess, now, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.sign(subject, role, TypeRefresh, now, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *Signer) sign(subject, role, typ string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Parse verifies the signature and expiry and checks the token type.
func (s *Signer) Parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != wantType {
		return nil, ErrWrongType
	}
	return claims, nil
}
