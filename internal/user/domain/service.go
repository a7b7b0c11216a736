package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	orgdomain "github.com/tenantgate/tenantgate/internal/organization/domain"
	roledomain "github.com/tenantgate/tenantgate/internal/role/domain"
)

var (
	ErrUserNotFound     = errors.New("user_not_found")
	ErrUserExists       = errors.New("user_exists")
	ErrSelfDeletion     = errors.New("self_deletion")
	ErrProtectedAccount = errors.New("protected_account")
)

// RoleAssignment is a catalog role annotated with whether the user under
// inspection currently holds it.
type RoleAssignment struct {
	roledomain.Role
	Assigned bool `json:"assigned"`
}

type Service interface {
	Create(ctx context.Context, claims *token.Claims, req CreateUserRequest) (*User, error)
	List(ctx context.Context, claims *token.Claims) ([]User, error)
	Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*User, error)
	Update(ctx context.Context, claims *token.Claims, id snowflake.ID, req UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) error

	// SetRoles replaces the user's whole role set. Unknown or invisible
	// role ids fail the operation without partial writes.
	SetRoles(ctx context.Context, claims *token.Claims, userID snowflake.ID, roleIDs []snowflake.ID) ([]RoleAssignment, error)
	ListRolesWithAssignment(ctx context.Context, claims *token.Claims, userID snowflake.ID) ([]RoleAssignment, error)
	GetOrganization(ctx context.Context, claims *token.Claims, userID snowflake.ID) (*orgdomain.Organization, error)
}

type CreateUserRequest struct {
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	Password       string  `json:"password"`
	IsActive       *bool   `json:"is_active"`
	OrganizationID *string `json:"organization_id"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
}
