package geo

import "go.uber.org/fx"

var Module = fx.Module("geo.repository",
	fx.Provide(NewRepository),
)
