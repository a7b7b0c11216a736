package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/tenantgate/tenantgate/internal/organization/domain"
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
		log:   log.Named("organization.service"),
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (*domain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validate.Required("name")
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = fmt.Sprintf("org_%s", s.genID.Generate())
	}

	orgSlug := strings.TrimSpace(req.Slug)
	if orgSlug == "" {
		orgSlug = slug.Make(name)
	}

	org := domain.Organization{
		ID:       id,
		Name:     name,
		Slug:     orgSlug,
		Metadata: req.Metadata,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrOrganizationExists
		}
		return nil, err
	}

	s.log.Info("organization created",
		zap.String("organization_id", org.ID),
		zap.String("slug", org.Slug),
	)

	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context) ([]domain.Organization, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id string) (*domain.Organization, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrOrganizationNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateOrganizationRequest) (*domain.Organization, error) {
	org, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validate.Required("name")
		}
		org.Name = name
	}
	if req.Slug != nil {
		orgSlug := strings.TrimSpace(*req.Slug)
		if orgSlug == "" {
			return nil, validate.Required("slug")
		}
		org.Slug = orgSlug
	}

	if err := s.repo.Update(ctx, *org); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrOrganizationExists
		}
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrOrganizationNotFound
	}

	s.log.Info("organization deleted", zap.String("organization_id", id))
	return nil
}
