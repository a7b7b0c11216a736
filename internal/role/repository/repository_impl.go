package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/role/domain"
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

func (r *repository) Create(ctx context.Context, role domain.Role) error {
	return r.db.WithContext(ctx).Create(&role).Error
}

func (r *repository) List(ctx context.Context, includePlatform bool) ([]domain.Role, error) {
	var roles []domain.Role
	err := r.db.WithContext(ctx).Scopes(visibility(includePlatform)).
		Order("id ASC").Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *repository) Get(ctx context.Context, id snowflake.ID, includePlatform bool) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Scopes(visibility(includePlatform)).
		First(&role, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []snowflake.ID, includePlatform bool) ([]domain.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []domain.Role
	err := r.db.WithContext(ctx).Scopes(visibility(includePlatform)).
		Where("id IN ?", ids).Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *repository) Update(ctx context.Context, role domain.Role) error {
	return r.db.WithContext(ctx).Save(&role).Error
}

// Delete removes the role and its grant and assignment rows.
func (r *repository) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM role_permissions WHERE role_id = ?`, id,
	).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM user_roles WHERE role_id = ?`, id,
	).Error; err != nil {
		return 0, err
	}

	res := r.db.WithContext(ctx).Delete(&domain.Role{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) ReplacePermissions(ctx context.Context, roleID snowflake.ID, permissionIDs []snowflake.ID) error {
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM role_permissions WHERE role_id = ?`, roleID,
	).Error; err != nil {
		return err
	}

	if len(permissionIDs) == 0 {
		return nil
	}

	grants := make([]domain.RolePermission, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		grants = append(grants, domain.RolePermission{RoleID: roleID, PermissionID: pid})
	}
	return r.db.WithContext(ctx).Create(&grants).Error
}

func (r *repository) ListPermissionIDs(ctx context.Context, roleID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT permission_id FROM role_permissions WHERE role_id = ? ORDER BY permission_id ASC`,
		roleID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
