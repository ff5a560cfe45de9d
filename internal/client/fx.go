package client

import (
	"github.com/abogados-sv/facturacion/internal/client/repository"
	"github.com/abogados-sv/facturacion/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
