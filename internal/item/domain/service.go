package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
)

var ErrItemNotFound = errors.New("item_not_found")

type Service interface {
	Create(ctx context.Context, claims *token.Claims, req CreateItemRequest) (*Item, error)
	List(ctx context.Context, claims *token.Claims) ([]Item, error)
	Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*Item, error)
	Update(ctx context.Context, claims *token.Claims, id snowflake.ID, req UpdateItemRequest) (*Item, error)
	Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) error
}

type CreateItemRequest struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Price          float64        `json:"price"`
	OrganizationID string         `json:"organization_id"`
	Metadata       map[string]any `json:"metadata"`
}

type UpdateItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}
