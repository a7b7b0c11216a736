package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, role Role) error
	List(ctx context.Context, includePlatform bool) ([]Role, error)
	Get(ctx context.Context, id snowflake.ID, includePlatform bool) (*Role, error)
	GetByIDs(ctx context.Context, ids []snowflake.ID, includePlatform bool) ([]Role, error)
	Update(ctx context.Context, role Role) error
	Delete(ctx context.Context, id snowflake.ID) (int64, error)
	ReplacePermissions(ctx context.Context, roleID snowflake.ID, permissionIDs []snowflake.ID) error
	ListPermissionIDs(ctx context.Context, roleID snowflake.ID) ([]snowflake.ID, error)
}
