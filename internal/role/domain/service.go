package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	permdomain "github.com/tenantgate/tenantgate/internal/permission/domain"
)

var (
	ErrRoleNotFound = errors.New("role_not_found")
	ErrRoleExists   = errors.New("role_exists")
)

// PermissionAssignment is a catalog permission annotated with whether the
// role under inspection currently holds it.
type PermissionAssignment struct {
	permdomain.Permission
	Assigned bool `json:"assigned"`
}

type Service interface {
	Create(ctx context.Context, req CreateRoleRequest) (*Role, error)
	List(ctx context.Context, claims *token.Claims) ([]Role, error)
	Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*Role, error)
	Update(ctx context.Context, claims *token.Claims, id snowflake.ID, req UpdateRoleRequest) (*Role, error)
	Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) error

	// SetPermissions replaces the role's whole grant set. Unknown or
	// invisible permission ids fail the operation without partial writes.
	SetPermissions(ctx context.Context, claims *token.Claims, roleID snowflake.ID, permissionIDs []snowflake.ID) ([]PermissionAssignment, error)
	ListPermissionsWithAssignment(ctx context.Context, claims *token.Claims, roleID snowflake.ID) ([]PermissionAssignment, error)
}

type CreateRoleRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	IsPlatformLevel bool   `json:"is_platform_level"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
