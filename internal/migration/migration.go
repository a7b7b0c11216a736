// Package migration creates the schema on startup so the service is usable
// out of the box for local and self-hosted environments.
package migration

import (
	"errors"

	itemdomain "github.com/tenantgate/tenantgate/internal/item/domain"
	orgdomain "github.com/tenantgate/tenantgate/internal/organization/domain"
	permdomain "github.com/tenantgate/tenantgate/internal/permission/domain"
	roledomain "github.com/tenantgate/tenantgate/internal/role/domain"
	userdomain "github.com/tenantgate/tenantgate/internal/user/domain"
	"gorm.io/gorm"
)

func Run(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	return db.AutoMigrate(
		&orgdomain.Organization{},
		&userdomain.User{},
		&roledomain.Role{},
		&permdomain.Permission{},
		&userdomain.UserRole{},
		&roledomain.RolePermission{},
		&itemdomain.Item{},
	)
}
