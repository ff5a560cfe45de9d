package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/abogados-sv/facturacion/internal/clock"
	"github.com/abogados-sv/facturacion/internal/config"
	"github.com/abogados-sv/facturacion/internal/migration"
	"github.com/abogados-sv/facturacion/internal/observability"
	"github.com/abogados-sv/facturacion/internal/server"
	"github.com/abogados-sv/facturacion/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
