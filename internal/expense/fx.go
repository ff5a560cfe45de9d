package expense

import (
	"github.com/abogados-sv/facturacion/internal/expense/repository"
	"github.com/abogados-sv/facturacion/internal/expense/service"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
