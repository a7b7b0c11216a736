package repository

import (
	"context"
	"errors"

	"github.com/tenantgate/tenantgate/internal/organization/domain"
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

func (r *repository) Create(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Create(&org).Error
}

func (r *repository) List(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repository) Get(ctx context.Context, id string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).First(&org, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *repository) Update(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Save(&org).Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Organization{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
