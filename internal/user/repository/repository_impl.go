package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/authz"
	"github.com/tenantgate/tenantgate/internal/user/domain"
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

func (r *repository) Create(ctx context.Context, user domain.User) error {
	return r.db.WithContext(ctx).Create(&user).Error
}

func (r *repository) List(ctx context.Context, claims *token.Claims) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Scopes(authz.Scope(claims, "organization_id")).
		Order("id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Scopes(authz.Scope(claims, "organization_id")).
		First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) Update(ctx context.Context, user domain.User) error {
	return r.db.WithContext(ctx).Save(&user).Error
}

// Delete removes the user and its role assignment rows.
func (r *repository) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM user_roles WHERE user_id = ?`, id,
	).Error; err != nil {
		return 0, err
	}

	res := r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) GetByLogin(ctx context.Context, organizationID *string, username string) (*domain.User, error) {
	tx := r.db.WithContext(ctx).Where("username = ?", username)
	if organizationID == nil {
		tx = tx.Where("organization_id IS NULL")
	} else {
		tx = tx.Where("organization_id = ?", *organizationID)
	}

	var user domain.User
	if err := tx.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) ReplaceRoles(ctx context.Context, userID snowflake.ID, roleIDs []snowflake.ID) error {
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM user_roles WHERE user_id = ?`, userID,
	).Error; err != nil {
		return err
	}

	if len(roleIDs) == 0 {
		return nil
	}

	assignments := make([]domain.UserRole, 0, len(roleIDs))
	for _, rid := range roleIDs {
		assignments = append(assignments, domain.UserRole{UserID: userID, RoleID: rid})
	}
	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *repository) ListRoleIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT role_id FROM user_roles WHERE user_id = ? ORDER BY role_id ASC`,
		userID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) ListPermissionNames(ctx context.Context, userID snowflake.ID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT p.name
		 FROM permissions p
		 JOIN role_permissions rp ON rp.permission_id = p.id
		 JOIN user_roles ur ON ur.role_id = rp.role_id
		 WHERE ur.user_id = ?
		 ORDER BY p.name ASC`,
		userID,
	).Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *repository) HasPlatformRole(ctx context.Context, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1)
		 FROM roles r
		 JOIN user_roles ur ON ur.role_id = r.id
		 WHERE ur.user_id = ? AND r.is_platform_level = ?`,
		userID, true,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
