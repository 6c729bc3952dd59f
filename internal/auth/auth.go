// Package auth signs in the shop owner and checks admin bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotConfigured      = errors.New("admin sign-in is not configured")
)

const issuer = "storefront"

type Authenticator struct {
	email        string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(email, passwordHash, secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}
}

// Login returns a signed token for the configured admin account.
func (a *Authenticator) Login(email, password string) (string, time.Time, error) {
	if a.email == "" || len(a.passwordHash) == 0 || len(a.secret) == 0 {
		return "", time.Time{}, ErrNotConfigured
	}
	if strings.ToLower(strings.TrimSpace(email)) != a.email {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	expires := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   a.email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expires, nil
}

// Verify checks an HS256 token and returns its subject.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	if len(a.secret) == 0 {
		return "", ErrNotConfigured
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject != a.email {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
