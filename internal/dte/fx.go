package dte

import (
	"context"

	"github.com/abogados-sv/facturacion/internal/config"
	"github.com/abogados-sv/facturacion/internal/dte/domain"
	"github.com/abogados-sv/facturacion/internal/dte/service"
	invoicedomain "github.com/abogados-sv/facturacion/internal/invoice/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("dte.service",
	fx.Provide(service.New),
	fx.Provide(func(s *service.Service) domain.Service { return s }),
	fx.Provide(func(s *service.Service) invoicedomain.Transmitter { return s }),
	fx.Invoke(StartAutoresend),
)

// StartAutoresend runs the pending-invoice retransmission loop for the
// lifetime of the application.
func StartAutoresend(lc fx.Lifecycle, cfg config.Config, svc *service.Service) {
	if !cfg.DTE.Enabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithCancel(context.Background())

			go svc.RunForever(ctx)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})

			return nil
		},
	})
}
