package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item Item) error
	List(ctx context.Context, claims *token.Claims) ([]Item, error)
	Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*Item, error)
	Update(ctx context.Context, item Item) error
	Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) (int64, error)
}
