package item

import (
	"github.com/tenantgate/tenantgate/internal/item/repository"
	"github.com/tenantgate/tenantgate/internal/item/service"
	"go.uber.org/fx"
)

var Module = fx.Module("item.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
