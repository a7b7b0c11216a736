package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, perm Permission) error
	List(ctx context.Context, includePlatform bool) ([]Permission, error)
	Get(ctx context.Context, id snowflake.ID, includePlatform bool) (*Permission, error)
	GetByIDs(ctx context.Context, ids []snowflake.ID, includePlatform bool) ([]Permission, error)
	Update(ctx context.Context, perm Permission) error
	Delete(ctx context.Context, id snowflake.ID) (int64, error)
}
