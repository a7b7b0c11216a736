// Package token encodes and decodes the signed session credential.
//
// A token is a point-in-time snapshot: the permission set and the derived
// platform-admin flag are resolved once at issue time and stay valid until
// the token expires. Decoding never consults the database.
package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded, trusted content of a session token.
type Claims struct {
	jwt.RegisteredClaims
	OrganizationID *string  `json:"organization_id,omitempty"`
	Permissions    []string `json:"permissions"`
	PlatformAdmin  bool     `json:"platform_admin"`
}

// HasPermission reports whether the snapshot includes the named permission.
func (c *Claims) HasPermission(name string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// OrgID returns the organization id, or "" for platform-level users.
func (c *Claims) OrgID() string {
	if c == nil || c.OrganizationID == nil {
		return ""
	}
	return *c.OrganizationID
}
