package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the signed payload of every token this service issues.
// Wire names: userId, type, iss, iat, exp and, on refresh tokens only, jti.
// Access tokens carry no jti and are never tracked in the session store.
type Claims struct {
	UserID string    `json:"userId"`
	Type   TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenID returns the jti; empty for access tokens.
func (c Claims) TokenID() string { return c.ID }

// Validate is called by the jwt parser after the registered claims checks.
func (c Claims) Validate() error {
	switch c.Type {
	case TokenTypeAccess, TokenTypeRefresh:
	default:
		return fmt.Errorf("%w: unknown token type %q", errClaimSet, c.Type)
	}
	if c.UserID == "" {
		return fmt.Errorf("%w: userId is required", errClaimSet)
	}
	switch {
	case c.Type == TokenTypeAccess && c.ID != "":
		return fmt.Errorf("%w: access tokens carry no jti", errClaimSet)
	case c.Type == TokenTypeRefresh && c.ID == "":
		return fmt.Errorf("%w: refresh tokens require a jti", errClaimSet)
	}
	if c.IssuedAt != nil && c.ExpiresAt != nil && !c.ExpiresAt.After(c.IssuedAt.Time) {
		return fmt.Errorf("%w: exp must be after iat", errClaimSet)
	}
	return nil
}
