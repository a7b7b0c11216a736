// Package authz makes access decisions from the claims snapshot carried by
// a session token. Decisions never touch the database.
package authz

import (
	"context"
	"errors"

	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/observability/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrForbidden = errors.New("forbidden")

// Evaluator checks required permissions against token claims and records
// every decision.
type Evaluator struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewEvaluator(log *zap.Logger, m *metrics.Metrics) *Evaluator {
	return &Evaluator{
		log:     log.Named("authz"),
		metrics: m,
	}
}

// Authorize returns ErrForbidden unless the claims snapshot holds the
// required permission.
func (e *Evaluator) Authorize(ctx context.Context, claims *token.Claims, permission string) error {
	allowed := claims.HasPermission(permission)
	e.metrics.RecordAuthzCheck(ctx, permission, allowed)

	if !allowed {
		e.log.Warn("permission denied",
			zap.String("subject", subjectOf(claims)),
			zap.String("permission", permission),
		)
		return ErrForbidden
	}
	return nil
}

func subjectOf(claims *token.Claims) string {
	if claims == nil {
		return ""
	}
	return claims.Subject
}

// Scope restricts a query to the caller's organization. Platform admins see
// every row.
func Scope(claims *token.Claims, column string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if claims == nil {
			return tx.Where("1 = 0")
		}
		if claims.PlatformAdmin {
			return tx
		}
		return tx.Where(column+" = ?", claims.OrgID())
	}
}
