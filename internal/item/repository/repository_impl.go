package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/authz"
	"github.com/tenantgate/tenantgate/internal/item/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item domain.Item) error {
	return r.db.WithContext(ctx).Create(&item).Error
}

func (r *repository) List(ctx context.Context, claims *token.Claims) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Scopes(authz.Scope(claims, "organization_id")).
		Order("id ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).
		Scopes(authz.Scope(claims, "organization_id")).
		First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) Update(ctx context.Context, item domain.Item) error {
	return r.db.WithContext(ctx).Save(&item).Error
}

func (r *repository) Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).
		Scopes(authz.Scope(claims, "organization_id")).
		Delete(&domain.Item{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
