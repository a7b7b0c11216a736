// Package domain defines the authentication surface.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tenantgate/tenantgate/internal/auth/token"
	userdomain "github.com/tenantgate/tenantgate/internal/user/domain"
)

var (
	// ErrMalformedLogin means the identifier is not of the org\username form.
	ErrMalformedLogin = errors.New("malformed_login")

	// ErrInvalidCredentials deliberately covers unknown org, unknown user,
	// inactive account, and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// LoginSeparator splits the organization slug from the username in a login
// identifier, as in `acme\admin`.
const LoginSeparator = `\`

type LoginResult struct {
	Token     string        `json:"access_token"`
	TokenType string        `json:"token_type"`
	ExpiresAt time.Time     `json:"expires_at"`
	Claims    *token.Claims `json:"-"`
}

type Service interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	CurrentUser(ctx context.Context, claims *token.Claims) (*userdomain.User, error)
}

// ParseLoginID splits `<org slug>\<username>`. Exactly one separator with
// non-empty halves is accepted.
func ParseLoginID(identifier string) (orgSlug, username string, err error) {
	if strings.Count(identifier, LoginSeparator) != 1 {
		return "", "", ErrMalformedLogin
	}
	orgSlug, username, _ = strings.Cut(identifier, LoginSeparator)
	if orgSlug == "" || username == "" {
		return "", "", ErrMalformedLogin
	}
	return orgSlug, username, nil
}
