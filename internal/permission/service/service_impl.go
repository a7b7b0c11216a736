package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/permission/domain"
	"github.com/tenantgate/tenantgate/pkg/db"
	"github.com/tenantgate/tenantgate/pkg/validate"
	"go.uber.org/zap"
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		repo:  repo,
		genID: genID,
		log:   log.Named("permission.service"),
	}
}

func canSeePlatform(claims *token.Claims) bool {
	return claims != nil && claims.PlatformAdmin
}

func (s *service) Create(ctx context.Context, req domain.CreatePermissionRequest) (*domain.Permission, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validate.Required("name")
	}
	if !strings.Contains(name, ":") {
		return nil, validate.Field("name", "must follow the action:resource form")
	}

	perm := domain.Permission{
		ID:              s.genID.Generate(),
		Name:            name,
		Description:     strings.TrimSpace(req.Description),
		IsPlatformLevel: req.IsPlatformLevel,
	}

	if err := s.repo.Create(ctx, perm); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPermissionExists
		}
		return nil, err
	}

	s.log.Info("permission created",
		zap.Int64("permission_id", int64(perm.ID)),
		zap.String("name", perm.Name),
	)

	return s.repo.Get(ctx, perm.ID, true)
}

func (s *service) List(ctx context.Context, claims *token.Claims) ([]domain.Permission, error) {
	return s.repo.List(ctx, canSeePlatform(claims))
}

func (s *service) Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*domain.Permission, error) {
	return s.repo.Get(ctx, id, canSeePlatform(claims))
}

func (s *service) Update(ctx context.Context, claims *token.Claims, id snowflake.ID, req domain.UpdatePermissionRequest) (*domain.Permission, error) {
	perm, err := s.repo.Get(ctx, id, canSeePlatform(claims))
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validate.Required("name")
		}
		if !strings.Contains(name, ":") {
			return nil, validate.Field("name", "must follow the action:resource form")
		}
		perm.Name = name
	}
	if req.Description != nil {
		perm.Description = strings.TrimSpace(*req.Description)
	}

	if err := s.repo.Update(ctx, *perm); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPermissionExists
		}
		return nil, err
	}
	return s.repo.Get(ctx, id, true)
}

func (s *service) Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) error {
	if _, err := s.repo.Get(ctx, id, canSeePlatform(claims)); err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrPermissionNotFound
	}

	s.log.Info("permission deleted", zap.Int64("permission_id", int64(id)))
	return nil
}
