package organization

import (
	"github.com/tenantgate/tenantgate/internal/organization/repository"
	"github.com/tenantgate/tenantgate/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
