/*
Package jwt decodes and issues the session tokens handed out by the PixelMinds API.

The client never holds the API's signing key, so decoding only checks structure and
reads claims; trust decisions stay with the server. Issue exists for fixtures and for
the companion server's development mode.
*/
package jwt

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenIssuer identifies tokens minted by Issue.
const TokenIssuer = "PixelMinds-Dev"

var parser = &jwt.Parser{}

// Decode parses token without verifying its signature.
// It reports false for an empty or malformed token and never panics.
func Decode(token string) (*Claims, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}

	p := &payload{}
	if _, _, err := parser.ParseUnverified(token, p); err != nil {
		return nil, false
	}

	claims, err := p.claims()
	if err != nil {
		return nil, false
	}
	return claims, true
}

// ExpiredAt reports whether the claims are stale at now.
// Missing claims or a missing exp are treated as expired; exp equal to now is expired.
func (c *Claims) ExpiredAt(now time.Time) bool {
	expiry := c.Expiry()
	if expiry.IsZero() {
		return true
	}
	return !expiry.After(now)
}

// IsExpired reports whether token is absent, malformed, or expired at now.
func IsExpired(token string, now time.Time) bool {
	claims, ok := Decode(token)
	if !ok {
		return true
	}
	return claims.ExpiredAt(now)
}

// Issue signs an HS256 token for identity that expires at expiresAt.
func Issue(identity Identity, secretKey string, expiresAt time.Time) (string, error) {
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt.Unix(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    TokenIssuer,
		},
		Data: identity,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}
