package jwt

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

// UserTypeAdmin is the usertype tag the API assigns to administrators.
const UserTypeAdmin = "admin"

// Identity is the user record the API embeds under the "data" claim of every token.
// It is used for display gating only; the API remains the authority on permissions.
type Identity struct {
	// ID is the numeric user id. Tokens carry it as a JSON number or a numeric string.
	ID int64 `json:"id"`

	// UserType is the role tag used by the client to gate admin-only views ("admin", "user").
	UserType string `json:"usertype"`

	// Role is the optional free-form role string some tokens carry.
	Role string `json:"role,omitempty"`

	// Fullname and Email prefill the profile view.
	Fullname string `json:"fullname,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (i *Identity) UnmarshalJSON(data []byte) error {
	type plain Identity
	aux := struct {
		ID json.RawMessage `json:"id"`
		*plain
	}{plain: (*plain)(i)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := parseID(aux.ID)
	if err != nil {
		return err
	}
	i.ID = id
	return nil
}

func parseID(raw json.RawMessage) (int64, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, fmt.Errorf("invalid user id %s", raw)
	}
	return int64(f), nil
}

// IsAdmin reports whether the identity carries the admin usertype.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.UserType == UserTypeAdmin
}

// Claims is the decoded payload of a session token.
// StandardClaims is embedded without a tag so exp, iat and iss stay top-level fields.
type Claims struct {
	jwt.StandardClaims

	Data Identity `json:"data"`

	// expiresAt keeps the sub-second part of a fractional exp; ExpiresAt holds whole seconds.
	expiresAt time.Time
}

// Expiry returns the expiry instant, or the zero time when the token carries no exp.
func (c *Claims) Expiry() time.Time {
	switch {
	case c == nil:
		return time.Time{}
	case !c.expiresAt.IsZero():
		return c.expiresAt
	case c.ExpiresAt != 0:
		return time.Unix(c.ExpiresAt, 0)
	}
	return time.Time{}
}

// payload is the wire shape Decode reads. Registered claims are NumericDate values,
// which may be fractional, so they are decoded as numbers before Claims is built.
type payload struct {
	ExpiresAt json.Number `json:"exp"`
	IssuedAt  json.Number `json:"iat"`
	NotBefore json.Number `json:"nbf"`
	Issuer    string      `json:"iss"`
	Subject   string      `json:"sub"`
	ID        string      `json:"jti"`

	Data Identity `json:"data"`
}

// Valid satisfies jwt.Claims; Decode never validates.
func (payload) Valid() error { return nil }

func (p *payload) claims() (*Claims, error) {
	exp, err := numericDate(p.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("exp: %w", err)
	}
	iat, err := numericDate(p.IssuedAt)
	if err != nil {
		return nil, fmt.Errorf("iat: %w", err)
	}
	nbf, err := numericDate(p.NotBefore)
	if err != nil {
		return nil, fmt.Errorf("nbf: %w", err)
	}

	c := &Claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: unixSeconds(exp),
			IssuedAt:  unixSeconds(iat),
			NotBefore: unixSeconds(nbf),
			Issuer:    p.Issuer,
			Subject:   p.Subject,
			Id:        p.ID,
		},
		Data:      p.Data,
		expiresAt: exp,
	}
	return c, nil
}

func numericDate(n json.Number) (time.Time, error) {
	if n == "" {
		return time.Time{}, nil
	}
	if secs, err := n.Int64(); err == nil {
		if secs == 0 {
			return time.Time{}, nil
		}
		return time.Unix(secs, 0), nil
	}

	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("invalid numeric date %q", n.String())
	}
	if f == 0 {
		return time.Time{}, nil
	}
	secs, frac := math.Modf(f)
	return time.Unix(int64(secs), int64(frac*float64(time.Second))), nil
}

func unixSeconds(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
