package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tenantgate/tenantgate/internal/auth/domain"
	"github.com/tenantgate/tenantgate/internal/auth/password"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"github.com/tenantgate/tenantgate/internal/observability/metrics"
	orgdomain "github.com/tenantgate/tenantgate/internal/organization/domain"
	userdomain "github.com/tenantgate/tenantgate/internal/user/domain"
	"go.uber.org/zap"
)

type service struct {
	userRepo userdomain.Repository
	orgRepo  orgdomain.Repository
	hasher   *password.Hasher
	codec    *token.Codec
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewService(
	userRepo userdomain.Repository,
	orgRepo orgdomain.Repository,
	hasher *password.Hasher,
	codec *token.Codec,
	m *metrics.Metrics,
	log *zap.Logger,
) domain.Service {
	return &service{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		hasher:   hasher,
		codec:    codec,
		metrics:  m,
		log:      log.Named("auth.service"),
	}
}

// Login resolves the identifier, checks the credential, and issues a token
// holding the caller's permission snapshot. Every resolution failure maps to
// ErrInvalidCredentials so callers cannot probe which part was wrong.
func (s *service) Login(ctx context.Context, identifier, plainPassword string) (*domain.LoginResult, error) {
	orgSlug, username, err := domain.ParseLoginID(identifier)
	if err != nil {
		s.metrics.RecordLoginAttempt(ctx, "malformed")
		return nil, err
	}

	org, err := s.orgRepo.GetBySlug(ctx, orgSlug)
	if err != nil {
		if errors.Is(err, orgdomain.ErrOrganizationNotFound) {
			return nil, s.reject(ctx, "unknown organization", orgSlug, username)
		}
		return nil, err
	}

	user, err := s.userRepo.GetByLogin(ctx, &org.ID, username)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, s.reject(ctx, "unknown user", orgSlug, username)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, s.reject(ctx, "inactive user", orgSlug, username)
	}

	if err := s.hasher.Verify(user.PasswordHash, plainPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, s.reject(ctx, "wrong password", orgSlug, username)
		}
		return nil, err
	}

	permissions, err := s.userRepo.ListPermissionNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	platformAdmin, err := s.userRepo.HasPlatformRole(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	raw, expiresAt, err := s.codec.Issue(user.ID.String(), user.OrganizationID, permissions, platformAdmin)
	if err != nil {
		return nil, err
	}
	claims, err := s.codec.Decode(raw)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLoginAttempt(ctx, "success")
	s.log.Info("login succeeded",
		zap.String("user_id", user.ID.String()),
		zap.String("organization_slug", orgSlug),
		zap.Bool("platform_admin", platformAdmin),
		zap.Int("permission_count", len(permissions)),
	)

	return &domain.LoginResult{
		Token:     raw,
		TokenType: "bearer",
		ExpiresAt: expiresAt,
		Claims:    claims,
	}, nil
}

func (s *service) CurrentUser(ctx context.Context, claims *token.Claims) (*userdomain.User, error) {
	if claims == nil {
		return nil, token.ErrInvalidToken
	}
	id, err := snowflake.ParseString(claims.Subject)
	if err != nil {
		return nil, token.ErrInvalidToken
	}
	return s.userRepo.Get(ctx, claims, id)
}

func (s *service) reject(ctx context.Context, reason, orgSlug, username string) error {
	s.metrics.RecordLoginAttempt(ctx, "failure")
	s.log.Warn("login rejected",
		zap.String("reason", reason),
		zap.String("organization_slug", orgSlug),
		zap.String("username", username),
	)
	return domain.ErrInvalidCredentials
}
