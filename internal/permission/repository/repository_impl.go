package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/permission/domain"
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

func visibility(includePlatform bool) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if includePlatform {
			return tx
		}
		return tx.Where("is_platform_level = ?", false)
	}
}

func (r *repository) Create(ctx context.Context, perm domain.Permission) error {
	return r.db.WithContext(ctx).Create(&perm).Error
}

func (r *repository) List(ctx context.Context, includePlatform bool) ([]domain.Permission, error) {
	var perms []domain.Permission
	err := r.db.WithContext(ctx).Scopes(visibility(includePlatform)).
		Order("id ASC").Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *repository) Get(ctx context.Context, id snowflake.ID, includePlatform bool) (*domain.Permission, error) {
	var perm domain.Permission
	err := r.db.WithContext(ctx).Scopes(visibility(includePlatform)).
		First(&perm, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPermissionNotFound
		}
		return nil, err
	}
	return &perm, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []snowflake.ID, includePlatform bool) ([]domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var perms []domain.Permission
	err := r.db.WithContext(ctx).Scopes(visibility(includePlatform)).
		Where("id IN ?", ids).Find(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *repository) Update(ctx context.Context, perm domain.Permission) error {
	return r.db.WithContext(ctx).Save(&perm).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Permission{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
