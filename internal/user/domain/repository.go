package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, user User) error
	List(ctx context.Context, claims *token.Claims) ([]User, error)
	Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*User, error)
	Update(ctx context.Context, user User) error
	Delete(ctx context.Context, id snowflake.ID) (int64, error)

	// GetByLogin resolves a user by exact organization (nil for platform
	// accounts) and username.
	GetByLogin(ctx context.Context, organizationID *string, username string) (*User, error)

	ReplaceRoles(ctx context.Context, userID snowflake.ID, roleIDs []snowflake.ID) error
	ListRoleIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error)
	ListPermissionNames(ctx context.Context, userID snowflake.ID) ([]string, error)
	HasPlatformRole(ctx context.Context, userID snowflake.ID) (bool, error)
}
