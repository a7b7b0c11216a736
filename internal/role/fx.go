package role

import (
	"github.com/tenantgate/tenantgate/internal/role/repository"
	"github.com/tenantgate/tenantgate/internal/role/service"
	"go.uber.org/fx"
)

var Module = fx.Module("role.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
