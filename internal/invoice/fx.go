package invoice

import (
	"github.com/abogados-sv/facturacion/internal/invoice/repository"
	"github.com/abogados-sv/facturacion/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
