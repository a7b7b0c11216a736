package auth

import (
	"github.com/tenantgate/tenantgate/internal/auth/password"
	"github.com/tenantgate/tenantgate/internal/auth/service"
	"github.com/tenantgate/tenantgate/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(password.NewHasher),
	fx.Provide(token.NewCodec),
	fx.Provide(service.NewService),
)
