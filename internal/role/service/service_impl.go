package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	permdomain "github.com/tenantgate/tenantgate/internal/permission/domain"
	"github.com/tenantgate/tenantgate/internal/role/domain"
	"github.com/tenantgate/tenantgate/pkg/db"
	"github.com/tenantgate/tenantgate/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	permRepo permdomain.Repository
	genID    *snowflake.Node
	log      *zap.Logger
}

func NewService(gdb *gorm.DB, repo domain.Repository, permRepo permdomain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		db:       gdb,
		repo:     repo,
		permRepo: permRepo,
		genID:    genID,
		log:      log.Named("role.service"),
	}
}

func canSeePlatform(claims *token.Claims) bool {
	return claims != nil && claims.PlatformAdmin
}

func (s *service) Create(ctx context.Context, req domain.CreateRoleRequest) (*domain.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validate.Required("name")
	}

	role := domain.Role{
		ID:              s.genID.Generate(),
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		IsPlatformLevel: req.IsPlatformLevel,
	}

	if err := s.repo.Create(ctx, role); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, err
	}

	s.log.Info("role created",
		zap.Int64("role_id", int64(role.ID)),
		zap.String("name", role.Name),
	)

	return s.repo.Get(ctx, role.ID, true)
}

func (s *service) List(ctx context.Context, claims *token.Claims) ([]domain.Role, error) {
	return s.repo.List(ctx, canSeePlatform(claims))
}

func (s *service) Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*domain.Role, error) {
	return s.repo.Get(ctx, id, canSeePlatform(claims))
}

func (s *service) Update(ctx context.Context, claims *token.Claims, id snowflake.ID, req domain.UpdateRoleRequest) (*domain.Role, error) {
	role, err := s.repo.Get(ctx, id, canSeePlatform(claims))
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validate.Required("name")
		}
		role.Name = name
	}
	if req.Description != nil {
		role.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.Update(ctx, *role); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, err
	}
	return s.repo.Get(ctx, id, true)
}

func (s *service) Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) error {
	if _, err := s.repo.Get(ctx, id, canSeePlatform(claims)); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrRoleNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("role deleted", zap.Int64("role_id", int64(id)))
	return nil
}

func (s *service) SetPermissions(ctx context.Context, claims *token.Claims, roleID snowflake.ID, permissionIDs []snowflake.ID) ([]domain.PermissionAssignment, error) {
	if _, err := s.repo.Get(ctx, roleID, canSeePlatform(claims)); err != nil {
		return nil, err
	}

	ids := dedupe(permissionIDs)
	perms, err := s.permRepo.GetByIDs(ctx, ids, canSeePlatform(claims))
	if err != nil {
		return nil, err
	}
	if len(perms) != len(ids) {
		return nil, permdomain.ErrPermissionNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplacePermissions(ctx, roleID, ids)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("role permissions replaced",
		zap.Int64("role_id", int64(roleID)),
		zap.Int("count", len(ids)),
	)

	return s.ListPermissionsWithAssignment(ctx, claims, roleID)
}

func (s *service) ListPermissionsWithAssignment(ctx context.Context, claims *token.Claims, roleID snowflake.ID) ([]domain.PermissionAssignment, error) {
	if _, err := s.repo.Get(ctx, roleID, canSeePlatform(claims)); err != nil {
		return nil, err
	}

	candidates, err := s.permRepo.List(ctx, canSeePlatform(claims))
	if err != nil {
		return nil, err
	}

	grantedIDs, err := s.repo.ListPermissionIDs(ctx, roleID)
	if err != nil {
		return nil, err
	}
	granted := make(map[snowflake.ID]struct{}, len(grantedIDs))
	for _, id := range grantedIDs {
		granted[id] = struct{}{}
	}

	out := make([]domain.PermissionAssignment, 0, len(candidates))
	for _, perm := range candidates {
		_, assigned := granted[perm.ID]
		out = append(out, domain.PermissionAssignment{Permission: perm, Assigned: assigned})
	}
	return out, nil
}

func dedupe(ids []snowflake.ID) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(ids))
	out := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
