package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/item/domain"
	orgdomain "github.com/tenantgate/tenantgate/internal/organization/domain"
	"github.com/tenantgate/tenantgate/pkg/validate"
	"go.uber.org/zap"
)

type service struct {
	repo    domain.Repository
	orgRepo orgdomain.Repository
	genID   *snowflake.Node
	log     *zap.Logger
}

func NewService(repo domain.Repository, orgRepo orgdomain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		repo:    repo,
		orgRepo: orgRepo,
		genID:   genID,
		log:     log.Named("item.service"),
	}
}

func (s *service) Create(ctx context.Context, claims *token.Claims, req domain.CreateItemRequest) (*domain.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validate.Required("name")
	}

	// Tenant callers always write into their own organization, whatever the
	// request says. Platform admins must name the target tenant.
	orgID := claims.OrgID()
	if claims != nil && claims.PlatformAdmin {
		orgID = strings.TrimSpace(req.OrganizationID)
		if orgID == "" {
			return nil, validate.Required("organization_id")
		}
		if _, err := s.orgRepo.Get(ctx, orgID); err != nil {
			return nil, err
		}
	}

	item := domain.Item{
		ID:             s.genID.Generate(),
		Name:           name,
		Description:    strings.TrimSpace(req.Description),
		Price:          req.Price,
		OrganizationID: orgID,
		Metadata:       req.Metadata,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info("item created",
		zap.Int64("item_id", int64(item.ID)),
		zap.String("organization_id", item.OrganizationID),
	)

	return s.repo.Get(ctx, claims, item.ID)
}

func (s *service) List(ctx context.Context, claims *token.Claims) ([]domain.Item, error) {
	return s.repo.List(ctx, claims)
}

func (s *service) Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*domain.Item, error) {
	return s.repo.Get(ctx, claims, id)
}

func (s *service) Update(ctx context.Context, claims *token.Claims, id snowflake.ID, req domain.UpdateItemRequest) (*domain.Item, error) {
	item, err := s.repo.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validate.Required("name")
		}
		item.Name = name
	}
	if req.Description != nil {
		item.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}

	if err := s.repo.Update(ctx, *item); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, claims, id)
}

func (s *service) Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) error {
	affected, err := s.repo.Delete(ctx, claims, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrItemNotFound
	}

	s.log.Info("item deleted", zap.Int64("item_id", int64(id)))
	return nil
}
