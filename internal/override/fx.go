package override

import (
	"github.com/abogados-sv/facturacion/internal/override/service"
	"go.uber.org/fx"
)

var Module = fx.Module("override.service",
	fx.Provide(service.New),
)
