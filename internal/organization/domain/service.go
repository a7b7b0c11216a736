package domain

import (
	"context"
	"errors"
)

var (
	ErrOrganizationNotFound = errors.New("organization_not_found")
	ErrOrganizationExists   = errors.New("organization_exists")
)

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (*Organization, error)
	List(ctx context.Context) ([]Organization, error)
	Get(ctx context.Context, id string) (*Organization, error)
	Update(ctx context.Context, id string, req UpdateOrganizationRequest) (*Organization, error)
	Delete(ctx context.Context, id string) error
}

type CreateOrganizationRequest struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	Metadata map[string]any `json:"metadata"`
}

type UpdateOrganizationRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}
