package permission

import (
	"github.com/tenantgate/tenantgate/internal/permission/repository"
	"github.com/tenantgate/tenantgate/internal/permission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("permission.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
