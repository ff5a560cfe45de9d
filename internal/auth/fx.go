package auth

import (
	"go.uber.org/fx"

	"github.com/abogados-sv/facturacion/internal/auth/service"
	"github.com/abogados-sv/facturacion/internal/auth/session"
)

var Module = fx.Module("auth",
	fx.Provide(session.NewManager),
	fx.Provide(service.New),
)
