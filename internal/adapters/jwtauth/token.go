package jwtauth

// Package jwtauth issues and verifies the signed session tokens the HTTP
// layer hands to browsers. Tokens carry the identity and resolved role so a
// request can rebuild its session without a collaborator round-trip.

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
)

// Config holds token settings. Secret is required; TTL defaults to 12h.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Claims is the session token payload.
type Claims struct {
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`
	AvatarURL   string `json:"picture,omitempty"`
	Role        string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens with HS256.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a Codec from cfg.
func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 12 * time.Hour
	}
	return &Codec{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for identity with its resolved role.
func (c *Codec) Issue(identity domainsession.Identity, role domainsession.Role) (string, error) {
	if identity.ID == "" {
		return "", errors.New("identity ID is required")
	}
	now := c.now()
	claims := Claims{
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
		Role:        string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its identity and role. An
// unparseable role in the token comes back as unresolved rather than failing
// verification; the role router treats unresolved as "no landing yet".
func (c *Codec) Verify(tokenString string) (domainsession.Identity, domainsession.Role, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		return domainsession.Identity{}, domainsession.RoleUnresolved, fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid {
		return domainsession.Identity{}, domainsession.RoleUnresolved, errors.New("session token invalid")
	}
	if c.issuer != "" && claims.Issuer != c.issuer {
		return domainsession.Identity{}, domainsession.RoleUnresolved, errors.New("session token issuer mismatch")
	}

	identity := domainsession.Identity{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		AvatarURL:   claims.AvatarURL,
	}
	role, err := domainsession.ParseRole(claims.Role)
	if err != nil {
		role = domainsession.RoleUnresolved
	}
	return identity, role, nil
}
