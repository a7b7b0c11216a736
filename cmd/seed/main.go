// Command seed migrates the schema and loads the demo dataset, then exits.
package main

import (
	"github.com/tenantgate/tenantgate/internal/clock"
	"github.com/tenantgate/tenantgate/internal/config"
	"github.com/tenantgate/tenantgate/internal/migration"
	"github.com/tenantgate/tenantgate/internal/observability"
	"github.com/tenantgate/tenantgate/internal/seed"
	"github.com/tenantgate/tenantgate/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,
		migration.Module,
		fx.Invoke(func(conn *gorm.DB, log *zap.Logger, shutdowner fx.Shutdowner) error {
			if err := seed.Ensure(conn); err != nil {
				return err
			}
			log.Info("seed complete")
			return shutdowner.Shutdown()
		}),
	)
	app.Run()
}
