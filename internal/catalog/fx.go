package catalog

import (
	"github.com/abogados-sv/facturacion/internal/catalog/repository"
	"github.com/abogados-sv/facturacion/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
