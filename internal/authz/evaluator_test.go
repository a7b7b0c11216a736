package authz

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func dryRunSession(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{DryRun: true})
	require.NoError(t, err)
	return gdb
}

func claimsWith(orgID string, platformAdmin bool, permissions ...string) *token.Claims {
	c := &token.Claims{
		Permissions:   permissions,
		PlatformAdmin: platformAdmin,
	}
	c.Subject = "42"
	if orgID != "" {
		c.OrganizationID = &orgID
	}
	return c
}

func TestEvaluator_Authorize(t *testing.T) {
	e := NewEvaluator(zap.NewNop(), nil)
	ctx := context.Background()

	claims := claimsWith("org_1", false, "read:items", "create:items")

	assert.NoError(t, e.Authorize(ctx, claims, "read:items"))
	assert.ErrorIs(t, e.Authorize(ctx, claims, "delete:items"), ErrForbidden)
	assert.ErrorIs(t, e.Authorize(ctx, nil, "read:items"), ErrForbidden)
}

func TestScope_TenantFilter(t *testing.T) {
	tx := dryRunSession(t)

	scoped := tx.Scopes(Scope(claimsWith("org_1", false), "organization_id")).
		Table("items").Find(&[]map[string]any{})
	require.NoError(t, scoped.Error)
	assert.Contains(t, scoped.Statement.SQL.String(), "organization_id")
	assert.Contains(t, scoped.Statement.Vars, "org_1")
}

func TestScope_PlatformAdminSeesAll(t *testing.T) {
	tx := dryRunSession(t)

	scoped := tx.Scopes(Scope(claimsWith("", true), "organization_id")).
		Table("items").Find(&[]map[string]any{})
	require.NoError(t, scoped.Error)
	assert.NotContains(t, scoped.Statement.SQL.String(), "organization_id")
}

func TestScope_NilClaimsMatchesNothing(t *testing.T) {
	tx := dryRunSession(t)

	scoped := tx.Scopes(Scope(nil, "organization_id")).
		Table("items").Find(&[]map[string]any{})
	require.NoError(t, scoped.Error)
	assert.Contains(t, scoped.Statement.SQL.String(), "1 = 0")
}
