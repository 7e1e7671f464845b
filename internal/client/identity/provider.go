// Package identity adapts the external identity provider for the client.
//
// The web app delegates sign-in to the provider's hosted UI and receives a
// session JWT; the CLI consumes that same token directly. Tokens are parsed
// without signature verification — verification is the backend's job — but
// expiry is honored locally: an expired token reads as signed-out.
package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("identity token expired")
	ErrNoEmail      = errors.New("identity token has no email claim")
	ErrNoSubject    = errors.New("identity token has no subject claim")
)

// Profile is the slice of identity-provider data the client cares about.
// ID and Email are always set; the rest is optional.
type Profile struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}

// Provider exposes what the session layer consumes from the identity
// provider: an asynchronous token getter and the local profile copy.
type Provider interface {
	Token(ctx context.Context) (string, error)
	Profile() (*Profile, error)
}

// sessionClaims are the standard OIDC claims we read from the session token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// TokenProvider is a Provider backed by a single session JWT.
type TokenProvider struct {
	raw    string
	claims sessionClaims
}

// FromToken parses a raw session JWT and validates the claims the client
// depends on. The signature is not checked.
func FromToken(raw string) (*TokenProvider, error) {
	raw = strings.TrimSpace(raw)

	claims := &sessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse identity token: %w", err)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, ErrTokenExpired
	}
	if claims.Subject == "" {
		return nil, ErrNoSubject
	}
	if claims.Email == "" {
		return nil, ErrNoEmail
	}

	return &TokenProvider{raw: raw, claims: *claims}, nil
}

// FromFile reads a session JWT from path and parses it with FromToken.
func FromFile(path string) (*TokenProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	return FromToken(string(data))
}

// Token returns the raw bearer token, or ErrTokenExpired once the token has
// lapsed. It satisfies the API client's TokenGetter shape.
func (p *TokenProvider) Token(_ context.Context) (string, error) {
	if p.claims.ExpiresAt != nil && p.claims.ExpiresAt.Before(time.Now()) {
		return "", ErrTokenExpired
	}
	return p.raw, nil
}

// Profile returns the identity-provider view of the user read from claims.
func (p *TokenProvider) Profile() (*Profile, error) {
	return &Profile{
		ID:        p.claims.Subject,
		Email:     p.claims.Email,
		FirstName: p.claims.GivenName,
		LastName:  p.claims.FamilyName,
		ImageURL:  p.claims.Picture,
	}, nil
}

// ExpiresAt reports the token expiry, or the zero time when the token does
// not carry one.
func (p *TokenProvider) ExpiresAt() time.Time {
	if p.claims.ExpiresAt == nil {
		return time.Time{}
	}
	return p.claims.ExpiresAt.Time
}
