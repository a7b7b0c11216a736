package user

import (
	"github.com/tenantgate/tenantgate/internal/user/repository"
	"github.com/tenantgate/tenantgate/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
