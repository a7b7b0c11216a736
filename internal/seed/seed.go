// Package seed populates a development database with the demo tenants,
// accounts, and RBAC graph. Safe to run repeatedly.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/password"
	itemdomain "github.com/tenantgate/tenantgate/internal/item/domain"
	orgdomain "github.com/tenantgate/tenantgate/internal/organization/domain"
	permdomain "github.com/tenantgate/tenantgate/internal/permission/domain"
	roledomain "github.com/tenantgate/tenantgate/internal/role/domain"
	userdomain "github.com/tenantgate/tenantgate/internal/user/domain"
	"gorm.io/gorm"
)

var organizations = []orgdomain.Organization{
	{ID: "superadmin", Name: "superadmin", Slug: "default"},
	{ID: "org_1", Name: "Acme Inc", Slug: "acme"},
	{ID: "org_2", Name: "FooBar Corp", Slug: "foobar"},
}

var permissionNames = []string{
	"create:organizations", "read:organizations", "update:organizations", "delete:organizations",
	"create:users", "read:users", "update:users", "delete:users",
	"create:roles", "read:roles", "update:roles", "delete:roles",
	"create:permissions", "read:permissions", "update:permissions", "delete:permissions",
	"create:items", "read:items", "update:items", "delete:items",
}

// grant sets per role name. The superadmin role gets every permission.
var roleGrants = map[string][]string{
	"admin": {
		"create:users", "read:users", "update:users", "delete:users",
		"create:roles", "read:roles", "update:roles", "delete:roles",
		"create:permissions", "read:permissions", "update:permissions", "delete:permissions",
		"create:items", "read:items", "update:items", "delete:items",
	},
	"editor": {"create:items", "read:items", "update:items", "delete:items"},
	"viewer": {"read:items"},
}

type seedUser struct {
	username string
	email    string
	name     string
	orgID    string
	role     string
}

// Demo credentials: each password equals the username.
var users = []seedUser{
	{"superadmin", "superadmin@superadmin.com", "Super Administrator", "superadmin", "superadmin"},
	{"admin", "admin@acme.com", "Administrator", "org_1", "admin"},
	{"editor", "editor@acme.com", "John Doe", "org_1", "editor"},
	{"viewer", "viewer@acme.com", "Jane Doe", "org_1", "viewer"},
	{"admin", "admin@foobar.com", "Administrator", "org_2", "admin"},
	{"editor", "editor@foobar.com", "Bob", "org_2", "editor"},
	{"viewer", "viewer@foobar.com", "Pam", "org_2", "viewer"},
}

// Ensure seeds everything inside one transaction.
func Ensure(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}
	hasher := password.NewHasher()

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, org := range organizations {
			if err := ensureOrganization(ctx, tx, org); err != nil {
				return err
			}
		}

		perms := make(map[string]permdomain.Permission, len(permissionNames))
		for _, name := range permissionNames {
			perm, err := ensurePermission(ctx, tx, node, name)
			if err != nil {
				return err
			}
			perms[name] = perm
		}

		roles := make(map[string]roledomain.Role, 4)
		for _, def := range []struct {
			name, description string
			platform          bool
		}{
			{"superadmin", "Super Administrator", true},
			{"admin", "Administrator", false},
			{"editor", "Editor", false},
			{"viewer", "Viewer", false},
		} {
			role, err := ensureRole(ctx, tx, node, def.name, def.description, def.platform)
			if err != nil {
				return err
			}
			roles[def.name] = role
		}

		for roleName, role := range roles {
			granted := roleGrants[roleName]
			if roleName == "superadmin" {
				granted = permissionNames
			}
			for _, permName := range granted {
				if err := ensureRolePermission(ctx, tx, role.ID, perms[permName].ID); err != nil {
					return err
				}
			}
		}

		for _, su := range users {
			user, err := ensureUser(ctx, tx, node, hasher, su)
			if err != nil {
				return err
			}
			if err := ensureUserRole(ctx, tx, user.ID, roles[su.role].ID); err != nil {
				return err
			}
		}

		for _, item := range []itemdomain.Item{
			{Name: "Item 1", Description: "Foo", Price: 50, OrganizationID: "org_1"},
			{Name: "Item 2", Description: "Foo Foo", Price: 100, OrganizationID: "org_2"},
		} {
			if err := ensureItem(ctx, tx, node, item); err != nil {
				return err
			}
		}

		return nil
	})
}

func ensureOrganization(ctx context.Context, tx *gorm.DB, org orgdomain.Organization) error {
	var existing orgdomain.Organization
	err := tx.WithContext(ctx).First(&existing, "id = ?", org.ID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.WithContext(ctx).Create(&org).Error
}

func ensurePermission(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name string) (permdomain.Permission, error) {
	var perm permdomain.Permission
	err := tx.WithContext(ctx).First(&perm, "name = ?", name).Error
	if err == nil {
		return perm, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return perm, err
	}

	perm = permdomain.Permission{
		ID:              node.Generate(),
		Name:            name,
		Description:     fmt.Sprintf("Ability to %s", strings.ReplaceAll(name, ":", " ")),
		IsPlatformLevel: strings.Contains(name, "organization"),
	}
	if err := tx.WithContext(ctx).Create(&perm).Error; err != nil {
		return perm, err
	}
	return perm, nil
}

func ensureRole(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name, description string, platform bool) (roledomain.Role, error) {
	var role roledomain.Role
	err := tx.WithContext(ctx).First(&role, "name = ?", name).Error
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return role, err
	}

	role = roledomain.Role{
		ID:              node.Generate(),
		Name:            name,
		Description:     description,
		IsPlatformLevel: platform,
	}
	if err := tx.WithContext(ctx).Create(&role).Error; err != nil {
		return role, err
	}
	return role, nil
}

func ensureRolePermission(ctx context.Context, tx *gorm.DB, roleID, permissionID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).Model(&roledomain.RolePermission{}).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&roledomain.RolePermission{
		RoleID:       roleID,
		PermissionID: permissionID,
	}).Error
}

func ensureUser(ctx context.Context, tx *gorm.DB, node *snowflake.Node, hasher *password.Hasher, su seedUser) (userdomain.User, error) {
	orgID := su.orgID
	var user userdomain.User
	err := tx.WithContext(ctx).
		Where("username = ? AND organization_id = ?", su.username, orgID).
		First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user, err
	}

	hash, err := hasher.Hash(su.username)
	if err != nil {
		return user, err
	}

	now := time.Now().UTC()
	user = userdomain.User{
		ID:             node.Generate(),
		Username:       su.username,
		Email:          su.email,
		Name:           su.name,
		PasswordHash:   hash,
		IsActive:       true,
		OrganizationID: &orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return user, err
	}
	return user, nil
}

func ensureUserRole(ctx context.Context, tx *gorm.DB, userID, roleID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).Model(&userdomain.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&userdomain.UserRole{
		UserID: userID,
		RoleID: roleID,
	}).Error
}

func ensureItem(ctx context.Context, tx *gorm.DB, node *snowflake.Node, item itemdomain.Item) error {
	var count int64
	err := tx.WithContext(ctx).Model(&itemdomain.Item{}).
		Where("name = ? AND organization_id = ?", item.Name, item.OrganizationID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	item.ID = node.Generate()
	return tx.WithContext(ctx).Create(&item).Error
}
