package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/abogados-sv/facturacion/internal/config"
	"github.com/abogados-sv/facturacion/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite deployments rely on the ORM schema.
			if err := seed.AutoMigrate(conn); err != nil {
				return err
			}
		}

		if err := seed.EnsureGeoCatalogs(conn); err != nil {
			return err
		}
		if err := seed.EnsureAdminUser(conn); err != nil {
			return err
		}
		if cfg.SeedDemoData {
			return seed.EnsureDemoCatalog(conn)
		}
		return nil
	}),
)
