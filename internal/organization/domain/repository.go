package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, org Organization) error
	List(ctx context.Context) ([]Organization, error)
	Get(ctx context.Context, id string) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	Update(ctx context.Context, org Organization) error
	Delete(ctx context.Context, id string) (int64, error)
}
