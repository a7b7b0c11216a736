package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/password"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	orgdomain "github.com/tenantgate/tenantgate/internal/organization/domain"
	roledomain "github.com/tenantgate/tenantgate/internal/role/domain"
	"github.com/tenantgate/tenantgate/internal/user/domain"
	"github.com/tenantgate/tenantgate/pkg/db"
	"github.com/tenantgate/tenantgate/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Usernames with this prefix are bootstrap accounts that must survive
// tenant administration mistakes.
const protectedUsernamePrefix = "admin"

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	roleRepo roledomain.Repository
	orgRepo  orgdomain.Repository
	hasher   *password.Hasher
	genID    *snowflake.Node
	log      *zap.Logger
}

func NewService(
	gdb *gorm.DB,
	repo domain.Repository,
	roleRepo roledomain.Repository,
	orgRepo orgdomain.Repository,
	hasher *password.Hasher,
	genID *snowflake.Node,
	log *zap.Logger,
) domain.Service {
	return &service{
		db:       gdb,
		repo:     repo,
		roleRepo: roleRepo,
		orgRepo:  orgRepo,
		hasher:   hasher,
		genID:    genID,
		log:      log.Named("user.service"),
	}
}

func canSeePlatform(claims *token.Claims) bool {
	return claims != nil && claims.PlatformAdmin
}

func (s *service) Create(ctx context.Context, claims *token.Claims, req domain.CreateUserRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, validate.Required("username")
	}
	if req.Password == "" {
		return nil, validate.Required("password")
	}

	// Tenant callers only create users inside their own organization.
	// Platform admins choose the target org, or none for a platform account.
	orgID := req.OrganizationID
	if !canSeePlatform(claims) {
		own := claims.OrgID()
		orgID = &own
	}
	if orgID != nil {
		if _, err := s.orgRepo.Get(ctx, *orgID); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	user := domain.User{
		ID:             s.genID.Generate(),
		Username:       username,
		Email:          strings.TrimSpace(req.Email),
		Name:           strings.TrimSpace(req.Name),
		PasswordHash:   hash,
		IsActive:       isActive,
		OrganizationID: orgID,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	s.log.Info("user created",
		zap.Int64("user_id", int64(user.ID)),
		zap.String("username", user.Username),
		zap.Stringp("organization_id", user.OrganizationID),
	)

	return s.repo.Get(ctx, claims, user.ID)
}

func (s *service) List(ctx context.Context, claims *token.Claims) ([]domain.User, error) {
	return s.repo.List(ctx, claims)
}

func (s *service) Get(ctx context.Context, claims *token.Claims, id snowflake.ID) (*domain.User, error) {
	return s.repo.Get(ctx, claims, id)
}

func (s *service) Update(ctx context.Context, claims *token.Claims, id snowflake.ID, req domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.repo.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, validate.Required("password")
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, *user); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, claims, id)
}

func (s *service) Delete(ctx context.Context, claims *token.Claims, id snowflake.ID) error {
	user, err := s.repo.Get(ctx, claims, id)
	if err != nil {
		return err
	}

	if claims != nil && user.ID.String() == claims.Subject {
		return domain.ErrSelfDeletion
	}
	if strings.HasPrefix(strings.ToLower(user.Username), protectedUsernamePrefix) {
		return domain.ErrProtectedAccount
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return err
		}
		if affected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("user deleted",
		zap.Int64("user_id", int64(id)),
		zap.String("username", user.Username),
	)
	return nil
}

func (s *service) SetRoles(ctx context.Context, claims *token.Claims, userID snowflake.ID, roleIDs []snowflake.ID) ([]domain.RoleAssignment, error) {
	if _, err := s.repo.Get(ctx, claims, userID); err != nil {
		return nil, err
	}

	ids := dedupe(roleIDs)
	roles, err := s.roleRepo.GetByIDs(ctx, ids, canSeePlatform(claims))
	if err != nil {
		return nil, err
	}
	if len(roles) != len(ids) {
		return nil, roledomain.ErrRoleNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).ReplaceRoles(ctx, userID, ids)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user roles replaced",
		zap.Int64("user_id", int64(userID)),
		zap.Int("count", len(ids)),
	)

	return s.ListRolesWithAssignment(ctx, claims, userID)
}

func (s *service) ListRolesWithAssignment(ctx context.Context, claims *token.Claims, userID snowflake.ID) ([]domain.RoleAssignment, error) {
	if _, err := s.repo.Get(ctx, claims, userID); err != nil {
		return nil, err
	}

	candidates, err := s.roleRepo.List(ctx, canSeePlatform(claims))
	if err != nil {
		return nil, err
	}

	heldIDs, err := s.repo.ListRoleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	held := make(map[snowflake.ID]struct{}, len(heldIDs))
	for _, id := range heldIDs {
		held[id] = struct{}{}
	}

	out := make([]domain.RoleAssignment, 0, len(candidates))
	for _, role := range candidates {
		_, assigned := held[role.ID]
		out = append(out, domain.RoleAssignment{Role: role, Assigned: assigned})
	}
	return out, nil
}

func (s *service) GetOrganization(ctx context.Context, claims *token.Claims, userID snowflake.ID) (*orgdomain.Organization, error) {
	user, err := s.repo.Get(ctx, claims, userID)
	if err != nil {
		return nil, err
	}
	if user.OrganizationID == nil {
		return nil, orgdomain.ErrOrganizationNotFound
	}
	return s.orgRepo.Get(ctx, *user.OrganizationID)
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
