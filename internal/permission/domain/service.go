package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
)

var (
	ErrPermissionNotFound = errors.New("permission_not_found")
	ErrPermissionExists   = errors.New("permission_exists")
)

type Service interface {
	Create(ctx context.Context, req CreatePermissionRequest) (*Permission, error)
	List(ctx context.Context, claims *token.Claims) ([]Permission, error)
	Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*Permission, error)
	Update(ctx context.Context, claims *token.Claims, id snowflake.ID, req UpdatePermissionRequest) (*Permission, error)
	Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) error
}

type CreatePermissionRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	IsPlatformLevel bool   `json:"is_platform_level"`
}

type UpdatePermissionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
