package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantgate/tenantgate/internal/auth/password"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/migration"
	orgrepository "github.com/tenantgate/tenantgate/internal/organization/repository"
	roledomain "github.com/tenantgate/tenantgate/internal/role/domain"
	rolerepository "github.com/tenantgate/tenantgate/internal/role/repository"
	"github.com/tenantgate/tenantgate/internal/seed"
	"github.com/tenantgate/tenantgate/internal/user/domain"
	userrepository "github.com/tenantgate/tenantgate/internal/user/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, migration.Run(gdb))
	require.NoError(t, seed.Ensure(gdb))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(
		gdb,
		userrepository.NewRepository(gdb),
		rolerepository.NewRepository(gdb),
		orgrepository.NewRepository(gdb),
		password.NewHasher(),
		node,
		zap.NewNop(),
	)
	return svc, gdb
}

func findUser(t *testing.T, gdb *gorm.DB, orgID, username string) domain.User {
	t.Helper()
	var user domain.User
	require.NoError(t, gdb.
		Where("username = ? AND organization_id = ?", username, orgID).
		First(&user).Error)
	return user
}

func findRole(t *testing.T, gdb *gorm.DB, name string) roledomain.Role {
	t.Helper()
	var role roledomain.Role
	require.NoError(t, gdb.First(&role, "name = ?", name).Error)
	return role
}

func tenantClaims(subject snowflake.ID, orgID string) *token.Claims {
	c := &token.Claims{OrganizationID: &orgID}
	c.Subject = subject.String()
	return c
}

func platformClaims(subject snowflake.ID) *token.Claims {
	org := "superadmin"
	c := &token.Claims{OrganizationID: &org, PlatformAdmin: true}
	c.Subject = subject.String()
	return c
}

func TestList_TenantIsolation(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	users, err := svc.List(ctx, tenantClaims(admin1.ID, "org_1"))
	require.NoError(t, err)
	require.Len(t, users, 3)
	for _, u := range users {
		require.NotNil(t, u.OrganizationID)
		assert.Equal(t, "org_1", *u.OrganizationID)
	}

	super := findUser(t, gdb, "superadmin", "superadmin")
	all, err := svc.List(ctx, platformClaims(super.ID))
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestGet_CrossTenantIsNotFound(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	editor2 := findUser(t, gdb, "org_2", "editor")

	_, err := svc.Get(ctx, tenantClaims(admin1.ID, "org_1"), editor2.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	got, err := svc.Get(ctx, platformClaims(admin1.ID), editor2.ID)
	require.NoError(t, err)
	assert.Equal(t, "editor", got.Username)
}

func TestCreate_ForcesCallerOrg(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	other := "org_2"
	created, err := svc.Create(ctx, tenantClaims(admin1.ID, "org_1"), domain.CreateUserRequest{
		Username:       "newbie",
		Password:       "s3cret",
		OrganizationID: &other,
	})
	require.NoError(t, err)
	require.NotNil(t, created.OrganizationID)
	assert.Equal(t, "org_1", *created.OrganizationID)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "s3cret", created.PasswordHash)
}

func TestCreate_DuplicateUsernameInOrg(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	_, err := svc.Create(ctx, tenantClaims(admin1.ID, "org_1"), domain.CreateUserRequest{
		Username: "editor",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	// The same username is fine in a different tenant.
	super := findUser(t, gdb, "superadmin", "superadmin")
	org2 := "org_2"
	_, err = svc.Create(ctx, platformClaims(super.ID), domain.CreateUserRequest{
		Username:       "newbie",
		Password:       "whatever",
		OrganizationID: &org2,
	})
	require.NoError(t, err)
}

func TestDelete_Guards(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	claims := tenantClaims(admin1.ID, "org_1")

	err := svc.Delete(ctx, claims, admin1.ID)
	assert.ErrorIs(t, err, domain.ErrSelfDeletion)

	protected, err := svc.Create(ctx, claims, domain.CreateUserRequest{
		Username: "Administrator2",
		Password: "whatever",
	})
	require.NoError(t, err)
	err = svc.Delete(ctx, claims, protected.ID)
	assert.ErrorIs(t, err, domain.ErrProtectedAccount)

	editor := findUser(t, gdb, "org_1", "editor")
	require.NoError(t, svc.Delete(ctx, claims, editor.ID))
	_, err = svc.Get(ctx, claims, editor.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	// Role assignments of the removed user are gone too.
	var count int64
	require.NoError(t, gdb.Model(&domain.UserRole{}).
		Where("user_id = ?", editor.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSetRoles_ReplaceSet(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	viewer1 := findUser(t, gdb, "org_1", "viewer")
	claims := tenantClaims(admin1.ID, "org_1")

	editorRole := findRole(t, gdb, "editor")
	viewerRole := findRole(t, gdb, "viewer")

	assignments, err := svc.SetRoles(ctx, claims, viewer1.ID, []snowflake.ID{editorRole.ID, viewerRole.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"admin": false, "editor": true, "viewer": true}, flatten(assignments))

	// Replace again with a smaller set; the old assignment goes away.
	assignments, err = svc.SetRoles(ctx, claims, viewer1.ID, []snowflake.ID{editorRole.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"admin": false, "editor": true, "viewer": false}, flatten(assignments))

	// Idempotent.
	again, err := svc.SetRoles(ctx, claims, viewer1.ID, []snowflake.ID{editorRole.ID})
	require.NoError(t, err)
	assert.Equal(t, flatten(assignments), flatten(again))
}

func TestSetRoles_UnknownIDFailsAtomically(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	viewer1 := findUser(t, gdb, "org_1", "viewer")
	claims := tenantClaims(admin1.ID, "org_1")

	editorRole := findRole(t, gdb, "editor")

	_, err := svc.SetRoles(ctx, claims, viewer1.ID, []snowflake.ID{editorRole.ID, snowflake.ID(999999)})
	assert.ErrorIs(t, err, roledomain.ErrRoleNotFound)

	// Original assignment survives untouched.
	assignments, err := svc.ListRolesWithAssignment(ctx, claims, viewer1.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"admin": false, "editor": false, "viewer": true}, flatten(assignments))
}

func TestSetRoles_PlatformRoleHiddenFromTenants(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	viewer1 := findUser(t, gdb, "org_1", "viewer")
	superRole := findRole(t, gdb, "superadmin")

	_, err := svc.SetRoles(ctx, tenantClaims(admin1.ID, "org_1"), viewer1.ID, []snowflake.ID{superRole.ID})
	assert.ErrorIs(t, err, roledomain.ErrRoleNotFound)

	super := findUser(t, gdb, "superadmin", "superadmin")
	assignments, err := svc.SetRoles(ctx, platformClaims(super.ID), viewer1.ID, []snowflake.ID{superRole.ID})
	require.NoError(t, err)
	assert.True(t, flatten(assignments)["superadmin"])
}

func TestListRolesWithAssignment_Visibility(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	assignments, err := svc.ListRolesWithAssignment(ctx, tenantClaims(admin1.ID, "org_1"), admin1.ID)
	require.NoError(t, err)

	names := flatten(assignments)
	assert.NotContains(t, names, "superadmin")
	assert.True(t, names["admin"])

	super := findUser(t, gdb, "superadmin", "superadmin")
	assignments, err = svc.ListRolesWithAssignment(ctx, platformClaims(super.ID), super.ID)
	require.NoError(t, err)
	assert.Contains(t, flatten(assignments), "superadmin")
}

func TestGetOrganization(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	org, err := svc.GetOrganization(ctx, tenantClaims(admin1.ID, "org_1"), admin1.ID)
	require.NoError(t, err)
	assert.Equal(t, "org_1", org.ID)
	assert.Equal(t, "acme", org.Slug)

	editor2 := findUser(t, gdb, "org_2", "editor")
	_, err = svc.GetOrganization(ctx, tenantClaims(admin1.ID, "org_1"), editor2.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdate_RehashesPassword(t *testing.T) {
	svc, gdb := setupService(t)
	ctx := context.Background()

	admin1 := findUser(t, gdb, "org_1", "admin")
	editor := findUser(t, gdb, "org_1", "editor")
	newPassword := "rotated"

	updated, err := svc.Update(ctx, tenantClaims(admin1.ID, "org_1"), editor.ID, domain.UpdateUserRequest{
		Password: &newPassword,
	})
	require.NoError(t, err)
	assert.NotEqual(t, editor.PasswordHash, updated.PasswordHash)
	assert.NoError(t, password.NewHasher().Verify(updated.PasswordHash, "rotated"))
}

func flatten(assignments []domain.RoleAssignment) map[string]bool {
	out := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		out[a.Name] = a.Assigned
	}
	return out
}
