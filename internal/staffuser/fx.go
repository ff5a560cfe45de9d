package staffuser

import (
	"github.com/abogados-sv/facturacion/internal/staffuser/repository"
	"github.com/abogados-sv/facturacion/internal/staffuser/service"
	"go.uber.org/fx"
)

var Module = fx.Module("staffuser.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
