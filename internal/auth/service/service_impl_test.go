package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantgate/tenantgate/internal/auth/domain"
	"github.com/tenantgate/tenantgate/internal/auth/password"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/clock"
	"github.com/tenantgate/tenantgate/internal/config"
	"github.com/tenantgate/tenantgate/internal/migration"
	orgrepository "github.com/tenantgate/tenantgate/internal/organization/repository"
	"github.com/tenantgate/tenantgate/internal/seed"
	userdomain "github.com/tenantgate/tenantgate/internal/user/domain"
	userrepository "github.com/tenantgate/tenantgate/internal/user/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, migration.Run(gdb))
	require.NoError(t, seed.Ensure(gdb))

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	codec, err := token.NewCodec(config.Config{
		AuthSecret:    "test-secret",
		AuthAlgorithm: "HS256",
		AuthTokenTTL:  30 * time.Minute,
	}, clk)
	require.NoError(t, err)

	svc := NewService(
		userrepository.NewRepository(gdb),
		orgrepository.NewRepository(gdb),
		password.NewHasher(),
		codec,
		nil,
		zap.NewNop(),
	)
	return svc, gdb, clk
}

func TestLogin_TenantAdmin(t *testing.T) {
	svc, _, clk := setupService(t)

	result, err := svc.Login(context.Background(), `acme\admin`, "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "bearer", result.TokenType)
	assert.Equal(t, clk.Now().Add(30*time.Minute), result.ExpiresAt)

	claims := result.Claims
	require.NotNil(t, claims)
	assert.Equal(t, "org_1", claims.OrgID())
	assert.False(t, claims.PlatformAdmin)
	assert.True(t, claims.HasPermission("read:items"))
	assert.True(t, claims.HasPermission("delete:users"))
	assert.False(t, claims.HasPermission("create:organizations"))
}

func TestLogin_Superadmin(t *testing.T) {
	svc, _, _ := setupService(t)

	result, err := svc.Login(context.Background(), `default\superadmin`, "superadmin")
	require.NoError(t, err)

	claims := result.Claims
	assert.Equal(t, "superadmin", claims.OrgID())
	assert.True(t, claims.PlatformAdmin)
	assert.Len(t, claims.Permissions, 20)
	assert.True(t, claims.HasPermission("delete:organizations"))
}

func TestLogin_ViewerPermissionUnion(t *testing.T) {
	svc, _, _ := setupService(t)

	result, err := svc.Login(context.Background(), `foobar\viewer`, "viewer")
	require.NoError(t, err)

	claims := result.Claims
	assert.Equal(t, "org_2", claims.OrgID())
	assert.Equal(t, []string{"read:items"}, claims.Permissions)
}

func TestLogin_MalformedIdentifier(t *testing.T) {
	svc, _, _ := setupService(t)

	for _, identifier := range []string{"acmeadmin", `acme\ad\min`, `\admin`, `acme\`, ""} {
		_, err := svc.Login(context.Background(), identifier, "admin")
		assert.ErrorIs(t, err, domain.ErrMalformedLogin, identifier)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, gdb, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, `nosuchorg\admin`, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, `acme\nosuchuser`, "admin")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, `acme\admin`, "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// A user in another org cannot log in through this org's slug.
	_, err = svc.Login(ctx, `acme\superadmin`, "superadmin")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, gdb.Model(&userdomain.User{}).
		Where("username = ? AND organization_id = ?", "viewer", "org_1").
		Update("is_active", false).Error)
	_, err = svc.Login(ctx, `acme\viewer`, "viewer")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCurrentUser(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, `acme\editor`, "editor")
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, result.Claims)
	require.NoError(t, err)
	assert.Equal(t, "editor", user.Username)
	require.NotNil(t, user.OrganizationID)
	assert.Equal(t, "org_1", *user.OrganizationID)

	_, err = svc.CurrentUser(ctx, nil)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestParseLoginID(t *testing.T) {
	orgSlug, username, err := domain.ParseLoginID(`acme\admin`)
	require.NoError(t, err)
	assert.Equal(t, "acme", orgSlug)
	assert.Equal(t, "admin", username)
}
