package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the client can read out of its own bearer token.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims decodes the token payload without verifying the signature. The
// result is for display only; it never decides whether the session is valid.
func Claims(token string) (TokenClaims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return TokenClaims{}, err
	}
	c := TokenClaims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}
