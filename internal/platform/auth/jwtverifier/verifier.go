package jwtverifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kcesar/training-api/internal/platform/config"
)

var ErrUnauthorized = errors.New("unauthorized")

// Claims are the verified fields the API cares about. The identity provider
// issues a memberId claim binding the login to a membership database record,
// and zero or more role claims.
type Claims struct {
	Subject  string
	MemberID string
	Roles    []string
}

// HasRole reports whether the token carries the named role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type tokenClaims struct {
	jwt.RegisteredClaims

	MemberID string `json:"memberId"`
	// Role may be issued as a single string or as an array.
	Role roleList `json:"role"`
}

type roleList []string

func (r *roleList) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = roleList{s}
		return nil
	}
	var ss []string
	if err := json.Unmarshal(b, &ss); err != nil {
		return err
	}
	*r = roleList(ss)
	return nil
}

type Verifier struct {
	cfg    config.JWTConfig
	parser *jwt.Parser
}

func New(cfg config.JWTConfig) *Verifier {
	return NewWithOptions(cfg, nil)
}

// NewWithOptions allows a custom time source for deterministic tests.
func NewWithOptions(cfg config.JWTConfig, now func() time.Time) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	}
	if now != nil {
		opts = append(opts, jwt.WithTimeFunc(now))
	}
	return &Verifier{cfg: cfg, parser: jwt.NewParser(opts...)}
}

// Verify parses and validates a raw bearer token and extracts its claims.
func (v *Verifier) Verify(raw string) (Claims, error) {
	var tc tokenClaims
	_, err := v.parser.ParseWithClaims(raw, &tc, func(t *jwt.Token) (any, error) {
		return []byte(v.cfg.Secret), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if tc.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing sub claim", ErrUnauthorized)
	}
	return Claims{
		Subject:  tc.Subject,
		MemberID: tc.MemberID,
		Roles:    []string(tc.Role),
	}, nil
}
