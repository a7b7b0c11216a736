package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	obscontext "github.com/tenantgate/tenantgate/internal/observability/context"
	"github.com/tenantgate/tenantgate/pkg/claimsctx"
)

const bearerPrefix = "Bearer "

// AuthRequired decodes the Bearer token and stores the claims on the request
// context for handlers and downstream log correlation.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.codec.Decode(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := claimsctx.WithClaims(c.Request.Context(), claims)
		ctx = obscontext.WithSubject(ctx, claims.Subject)
		if claims.OrganizationID != nil {
			ctx = obscontext.WithOrgID(ctx, *claims.OrganizationID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequirePermission gates a route on one permission from the token snapshot.
func (s *Server) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsctx.Claims(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if err := s.evaluator.Authorize(c.Request.Context(), claims, permission); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Next()
	}
}

func claimsFrom(c *gin.Context) *token.Claims {
	claims, _ := claimsctx.Claims(c.Request.Context())
	return claims
}
