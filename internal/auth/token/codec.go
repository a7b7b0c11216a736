package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tenantgate/tenantgate/internal/clock"
	"github.com/tenantgate/tenantgate/internal/config"
)

const Issuer = "tenantgate"

// ErrInvalidToken covers bad signatures, malformed payloads, and expiry.
var ErrInvalidToken = errors.New("invalid token")

// Codec signs and verifies session tokens with a server-held secret.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	clock  clock.Clock
}

func NewCodec(cfg config.Config, clk clock.Clock) (*Codec, error) {
	secret := strings.TrimSpace(cfg.AuthSecret)
	if secret == "" {
		return nil, errors.New("auth secret is required")
	}

	method := jwt.GetSigningMethod(cfg.AuthAlgorithm)
	if method == nil {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.AuthAlgorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", cfg.AuthAlgorithm)
	}

	ttl := cfg.AuthTokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &Codec{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		clock:  clk,
	}, nil
}

// Issue mints a signed token for the subject with the given authorization
// snapshot. Returns the compact token and its absolute expiry.
func (c *Codec) Issue(subject string, organizationID *string, permissions []string, platformAdmin bool) (string, time.Time, error) {
	now := c.clock.Now()
	expiresAt := now.Add(c.ttl)

	if permissions == nil {
		permissions = []string{}
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		OrganizationID: organizationID,
		Permissions:    permissions,
		PlatformAdmin:  platformAdmin,
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature and expiry and returns the claims.
func (c *Codec) Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, c.keyFunc,
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	return c.secret, nil
}
